// Package loaders reads external asset formats into scene primitives and
// textures: PLY triangle meshes, Radiance RGBE (.hdr) environment maps, and
// ordinary PNG/JPEG textures.
package loaders

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/vantablack/tracer/pkg/core"
	"github.com/vantablack/tracer/pkg/geometry"
	"github.com/vantablack/tracer/pkg/material"
	"github.com/vantablack/tracer/pkg/texture"
)

// plyVertex is a parsed mesh vertex; U/V default to 0 when the file carries
// no texture coordinates.
type plyVertex struct {
	P    core.Vec3
	U, V float64
}

// LoadPLY reads an ASCII or binary-little-endian PLY mesh, applies the
// given uniform scale and translation, and returns one triangle Primitive
// per face (fan-triangulated for faces with more than 3 vertices), each
// carrying mat and tex.
func LoadPLY(path string, idAlloc *core.IDAllocator, scale float64, translate core.Vec3, mat material.BxDF, tex texture.Texture) ([]geometry.Primitive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	header, err := readPLYHeader(r)
	if err != nil {
		return nil, err
	}

	var vertices []plyVertex
	var faces [][]int

	if header.binary {
		vertices, faces, err = readPLYBinary(r, header)
	} else {
		vertices, faces, err = readPLYASCII(r, header)
	}
	if err != nil {
		return nil, err
	}

	var prims []geometry.Primitive
	for _, face := range faces {
		for i := 1; i+1 < len(face); i++ {
			a, b, c := vertices[face[0]], vertices[face[i]], vertices[face[i+1]]
			v0 := a.P.Multiply(scale).Add(translate)
			v1 := b.P.Multiply(scale).Add(translate)
			v2 := c.P.Multiply(scale).Add(translate)
			prims = append(prims, geometry.NewTriangle(
				idAlloc.Next(), v0, v1, v2,
				core.Vec2{X: a.U, Y: a.V}, core.Vec2{X: b.U, Y: b.V}, core.Vec2{X: c.U, Y: c.V},
				mat, tex,
			))
		}
	}
	return prims, nil
}

type plyProperty struct {
	name      string
	isList    bool
	countType string
	dataType  string
}

type plyElement struct {
	name       string
	count      int
	properties []plyProperty
}

type plyHeader struct {
	binary   bool
	elements []plyElement
}

func readPLYHeader(r *bufio.Reader) (plyHeader, error) {
	var h plyHeader
	line, err := r.ReadString('\n')
	if err != nil || strings.TrimSpace(line) != "ply" {
		return h, fmt.Errorf("loaders: not a PLY file")
	}

	var current *plyElement
	for {
		line, err = r.ReadString('\n')
		if err != nil {
			return h, err
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "comment":
			continue
		case "format":
			h.binary = strings.Contains(fields[1], "binary_little_endian")
		case "element":
			h.elements = append(h.elements, plyElement{name: fields[1]})
			current = &h.elements[len(h.elements)-1]
			current.count, _ = strconv.Atoi(fields[2])
		case "property":
			if current == nil {
				continue
			}
			if fields[1] == "list" {
				current.properties = append(current.properties, plyProperty{
					name: fields[4], isList: true, countType: fields[2], dataType: fields[3],
				})
			} else {
				current.properties = append(current.properties, plyProperty{name: fields[2], dataType: fields[1]})
			}
		case "end_header":
			return h, nil
		}
	}
}

func readPLYASCII(r *bufio.Reader, h plyHeader) ([]plyVertex, [][]int, error) {
	var vertices []plyVertex
	var faces [][]int

	for _, el := range h.elements {
		for i := 0; i < el.count; i++ {
			line, err := r.ReadString('\n')
			if err != nil {
				return nil, nil, err
			}
			fields := strings.Fields(line)
			if el.name == "vertex" {
				v := plyVertex{}
				for pi, prop := range el.properties {
					val, _ := strconv.ParseFloat(fields[pi], 64)
					switch prop.name {
					case "x":
						v.P.X = val
					case "y":
						v.P.Y = val
					case "z":
						v.P.Z = val
					case "u", "s":
						v.U = val
					case "v", "t":
						v.V = val
					}
				}
				vertices = append(vertices, v)
			} else if el.name == "face" {
				n, _ := strconv.Atoi(fields[0])
				idx := make([]int, n)
				for k := 0; k < n; k++ {
					idx[k], _ = strconv.Atoi(fields[k+1])
				}
				faces = append(faces, idx)
			}
		}
	}
	return vertices, faces, nil
}

func readPLYBinary(r *bufio.Reader, h plyHeader) ([]plyVertex, [][]int, error) {
	var vertices []plyVertex
	var faces [][]int

	readScalar := func(dtype string) (float64, error) {
		switch dtype {
		case "float", "float32":
			var v float32
			if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
				return 0, err
			}
			return float64(v), nil
		case "double", "float64":
			var v float64
			if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
				return 0, err
			}
			return v, nil
		case "uchar", "uint8":
			var v uint8
			if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
				return 0, err
			}
			return float64(v), nil
		case "int", "int32", "uint", "uint32":
			var v int32
			if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
				return 0, err
			}
			return float64(v), nil
		default:
			return 0, fmt.Errorf("loaders: unsupported PLY scalar type %q", dtype)
		}
	}

	for _, el := range h.elements {
		for i := 0; i < el.count; i++ {
			if el.name == "vertex" {
				v := plyVertex{}
				for _, prop := range el.properties {
					val, err := readScalar(prop.dataType)
					if err != nil {
						return nil, nil, err
					}
					switch prop.name {
					case "x":
						v.P.X = val
					case "y":
						v.P.Y = val
					case "z":
						v.P.Z = val
					case "u", "s":
						v.U = val
					case "v", "t":
						v.V = val
					}
				}
				vertices = append(vertices, v)
			} else if el.name == "face" {
				for _, prop := range el.properties {
					if !prop.isList {
						continue
					}
					count, err := readScalar(prop.countType)
					if err != nil {
						return nil, nil, err
					}
					n := int(count)
					idx := make([]int, n)
					for k := 0; k < n; k++ {
						val, err := readScalar(prop.dataType)
						if err != nil {
							return nil, nil, err
						}
						idx[k] = int(val)
					}
					faces = append(faces, idx)
				}
			}
		}
	}
	return vertices, faces, nil
}
