package renderer

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl32"
)

// Irradiance cache file layout, little endian:
//
//	magic  uint32  "IRRC"
//	version uint32
//	start, end, delta  3 x float32 each
//	dims   3 x int32
//	count  int32
//	count probe records: pos 3f, local 3i, index i32, size f32, 9 x vec3 coeffs
//
// The magic and version fields reject files written by an incompatible
// build instead of silently corrupting the in-memory grid.
const (
	irradianceMagic   uint32 = 0x49525243 // "IRRC"
	irradianceVersion uint32 = 1
)

// SaveIrradiance writes the volume's grid parameters and probe records.
func SaveIrradiance(w io.Writer, v *IrradianceVolume) error {
	bw := bufio.NewWriter(w)

	for _, field := range []any{
		irradianceMagic,
		irradianceVersion,
		[3]float32(v.Start),
		[3]float32(v.End),
		[3]float32(v.Delta),
		v.Dim,
		int32(len(v.Probes)),
	} {
		if err := binary.Write(bw, binary.LittleEndian, field); err != nil {
			return err
		}
	}

	for i := range v.Probes {
		p := &v.Probes[i]
		for _, field := range []any{
			[3]float32(p.Position),
			p.Local,
			p.Index,
			p.Size,
		} {
			if err := binary.Write(bw, binary.LittleEndian, field); err != nil {
				return err
			}
		}
		for _, c := range p.SH.Coeffs {
			if err := binary.Write(bw, binary.LittleEndian, [3]float32(c)); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}

// LoadIrradiance reads a cache written by SaveIrradiance into the volume.
// The volume is only touched after the whole file parses; any failure
// leaves it unchanged and the caller decides whether to re-bake.
func LoadIrradiance(r io.Reader, v *IrradianceVolume) error {
	br := bufio.NewReader(r)

	var magic, version uint32
	if err := binary.Read(br, binary.LittleEndian, &magic); err != nil {
		return err
	}
	if magic != irradianceMagic {
		return fmt.Errorf("not an irradiance cache (magic %#x)", magic)
	}
	if err := binary.Read(br, binary.LittleEndian, &version); err != nil {
		return err
	}
	if version != irradianceVersion {
		return fmt.Errorf("unsupported irradiance cache version %d", version)
	}

	var start, end, delta [3]float32
	var dims [3]int32
	var count int32
	for _, field := range []any{&start, &end, &delta, &dims, &count} {
		if err := binary.Read(br, binary.LittleEndian, field); err != nil {
			return err
		}
	}
	if count < 0 || count != dims[0]*dims[1]*dims[2] {
		return fmt.Errorf("corrupt irradiance cache: %d probes for %dx%dx%d grid",
			count, dims[0], dims[1], dims[2])
	}

	probes := make([]Probe, count)
	for i := range probes {
		p := &probes[i]
		var pos [3]float32
		for _, field := range []any{&pos, &p.Local, &p.Index, &p.Size} {
			if err := binary.Read(br, binary.LittleEndian, field); err != nil {
				return err
			}
		}
		p.Position = mgl32.Vec3(pos)
		for j := range p.SH.Coeffs {
			var c [3]float32
			if err := binary.Read(br, binary.LittleEndian, &c); err != nil {
				return err
			}
			p.SH.Coeffs[j] = mgl32.Vec3(c)
		}
	}

	v.Start = mgl32.Vec3(start)
	v.End = mgl32.Vec3(end)
	v.Delta = mgl32.Vec3(delta)
	v.Dim = dims
	v.Probes = probes
	return nil
}

// SaveIrradianceFile persists the volume to disk.
func SaveIrradianceFile(path string, v *IrradianceVolume) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create irradiance cache: %w", err)
	}
	defer f.Close()
	if err := SaveIrradiance(f, v); err != nil {
		return fmt.Errorf("write irradiance cache: %w", err)
	}
	return nil
}

// LoadIrradianceFile restores a volume from disk.
func LoadIrradianceFile(path string, v *IrradianceVolume) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open irradiance cache: %w", err)
	}
	defer f.Close()
	if err := LoadIrradiance(f, v); err != nil {
		return fmt.Errorf("read irradiance cache: %w", err)
	}
	return nil
}
