// Package shader holds the WGSL compute programs of the GPU-capable
// filters.
//
// Every program uses the same bind group layout:
//
//	@binding(0) uniform Params (48 bytes, see Params)
//	@binding(1) storage, read       source pixels
//	@binding(2) storage, read       second input pixels
//	@binding(3) storage, read_write output pixels
//
// Pixels are packed RGBA8 words, straight alpha, rows top-down. Programs
// are dispatched with 8x8 workgroups.
package shader

import (
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/gogpu/naga"
)

//go:embed shaders/*.wgsl
var sources embed.FS

// WorkgroupSize is the edge length of the square workgroup every program
// declares.
const WorkgroupSize = 8

// ParamsSize is the byte size of the uniform block.
const ParamsSize = 48

// ErrUnknown is returned for a program name with no WGSL source.
var ErrUnknown = errors.New("shader: unknown program")

// Source returns the WGSL source of the named program.
func Source(name string) (string, error) {
	b, err := sources.ReadFile(path.Join("shaders", name+".wgsl"))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	return string(b), nil
}

// Names lists the available programs in sorted order.
func Names() []string {
	entries, err := sources.ReadDir("shaders")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if n, ok := strings.CutSuffix(e.Name(), ".wgsl"); ok {
			names = append(names, n)
		}
	}
	slices.Sort(names)
	return names
}

type compiled struct {
	words []uint32
	err   error
}

var (
	compileMu sync.Mutex
	compileBy = map[string]compiled{}
)

// Compile translates the named program to SPIR-V words. Results,
// including failures, are memoized so each program is compiled once per
// process.
func Compile(name string) ([]uint32, error) {
	compileMu.Lock()
	defer compileMu.Unlock()
	if c, ok := compileBy[name]; ok {
		return c.words, c.err
	}
	words, err := compile(name)
	compileBy[name] = compiled{words: words, err: err}
	return words, err
}

func compile(name string) ([]uint32, error) {
	src, err := Source(name)
	if err != nil {
		return nil, err
	}
	spirv, err := naga.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("shader: compile %s: %w", name, err)
	}
	if len(spirv)%4 != 0 {
		return nil, fmt.Errorf("shader: compile %s: SPIR-V size %d is not word aligned", name, len(spirv))
	}
	// SPIR-V is little-endian 32-bit words.
	words := make([]uint32, len(spirv)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(spirv[i*4:])
	}
	return words, nil
}

// Validate compiles the named program and reports whether it is usable.
func Validate(name string) error {
	_, err := Compile(name)
	return err
}

// Params is the uniform block shared by every program.
type Params struct {
	Width, Height   uint32
	Width2, Height2 uint32
	A, B            [4]float32
}

// Bytes encodes p in the std140 layout of the WGSL struct.
func (p Params) Bytes() []byte {
	out := make([]byte, ParamsSize)
	binary.LittleEndian.PutUint32(out[0:], p.Width)
	binary.LittleEndian.PutUint32(out[4:], p.Height)
	binary.LittleEndian.PutUint32(out[8:], p.Width2)
	binary.LittleEndian.PutUint32(out[12:], p.Height2)
	for i, v := range p.A {
		binary.LittleEndian.PutUint32(out[16+i*4:], math.Float32bits(v))
	}
	for i, v := range p.B {
		binary.LittleEndian.PutUint32(out[32+i*4:], math.Float32bits(v))
	}
	return out
}

// Groups returns the workgroup counts covering a w x h image.
func Groups(w, h int) (x, y uint32) {
	return uint32((w + WorkgroupSize - 1) / WorkgroupSize), uint32((h + WorkgroupSize - 1) / WorkgroupSize) //nolint:gosec // image sizes are small
}
