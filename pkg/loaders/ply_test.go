package loaders

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vantablack/tracer/pkg/core"
	"github.com/vantablack/tracer/pkg/material"
	"github.com/vantablack/tracer/pkg/texture"
)

const asciiQuadPLY = `ply
format ascii 1.0
comment unit quad in the z=0 plane
element vertex 4
property float x
property float y
property float z
element face 2
property list uchar int vertex_indices
end_header
0 0 0
1 0 0
1 1 0
0 1 0
3 0 1 2
3 0 2 3
`

func TestLoadPLYASCIITriangulatesAndTransforms(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.ply")
	if err := os.WriteFile(path, []byte(asciiQuadPLY), 0o644); err != nil {
		t.Fatal(err)
	}

	ids := core.NewIDAllocator()
	prims, err := LoadPLY(path, ids, 2.0, core.Vec3{X: 10}, material.NewLambertian(), texture.NewSolid(core.Color{X: 1, Y: 1, Z: 1}))
	if err != nil {
		t.Fatalf("LoadPLY: %v", err)
	}
	if len(prims) != 2 {
		t.Fatalf("expected 2 triangles from 2 faces, got %d", len(prims))
	}

	// Scale 2 + translate (10,0,0): vertex (1,1,0) lands at (12,2,0).
	if !prims[0].V2.Equals(core.Vec3{X: 12, Y: 2}) {
		t.Fatalf("transformed vertex = %v, want {12, 2, 0}", prims[0].V2)
	}
	if prims[0].ID == prims[1].ID {
		t.Fatalf("triangles should receive distinct ids, both got %d", prims[0].ID)
	}
}

func TestLoadPLYFanTriangulation(t *testing.T) {
	const pentagon = `ply
format ascii 1.0
element vertex 5
property float x
property float y
property float z
element face 1
property list uchar int vertex_indices
end_header
0 0 0
1 0 0
1.5 1 0
0.5 2 0
-0.5 1 0
5 0 1 2 3 4
`
	path := filepath.Join(t.TempDir(), "pentagon.ply")
	if err := os.WriteFile(path, []byte(pentagon), 0o644); err != nil {
		t.Fatal(err)
	}
	prims, err := LoadPLY(path, core.NewIDAllocator(), 1, core.Vec3{}, material.NewLambertian(), texture.NewSolid(core.Color{}))
	if err != nil {
		t.Fatalf("LoadPLY: %v", err)
	}
	if len(prims) != 3 {
		t.Fatalf("a 5-gon face should fan into 3 triangles, got %d", len(prims))
	}
	// Every fan triangle shares the anchor vertex.
	for i, p := range prims {
		if !p.V0.Equals(core.Vec3{}) {
			t.Fatalf("triangle %d anchor = %v, want the face's first vertex", i, p.V0)
		}
	}
}

func TestLoadPLYRejectsNonPLY(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not.ply")
	if err := os.WriteFile(path, []byte("solid teapot\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPLY(path, core.NewIDAllocator(), 1, core.Vec3{}, material.NewLambertian(), texture.NewSolid(core.Color{})); err == nil {
		t.Fatalf("expected an error for a non-PLY file")
	}
}
