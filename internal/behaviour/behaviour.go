package behaviour

// Behaviour mutates scene state once per frame. Start runs before the
// first Update.
type Behaviour interface {
	Start()
	Update(deltaTime float64)
}

type wrapper struct {
	behaviour Behaviour
	started   bool
}

// Manager runs a flat list of behaviours on the render thread, between
// frames. Not safe for concurrent use; mutate it through the engine's
// posted-work queue.
type Manager struct {
	behaviours []wrapper
}

func NewManager() *Manager {
	return &Manager{}
}

func (m *Manager) Add(b Behaviour) {
	m.behaviours = append(m.behaviours, wrapper{behaviour: b})
}

func (m *Manager) Remove(b Behaviour) {
	for i := range m.behaviours {
		if m.behaviours[i].behaviour == b {
			m.behaviours[i] = m.behaviours[len(m.behaviours)-1]
			m.behaviours = m.behaviours[:len(m.behaviours)-1]
			return
		}
	}
}

func (m *Manager) Clear() {
	m.behaviours = nil
}

func (m *Manager) Len() int {
	return len(m.behaviours)
}

// Update starts any behaviour not yet started, then updates all of them.
func (m *Manager) Update(deltaTime float64) {
	for i := range m.behaviours {
		if !m.behaviours[i].started {
			m.behaviours[i].behaviour.Start()
			m.behaviours[i].started = true
		}
		m.behaviours[i].behaviour.Update(deltaTime)
	}
}
