package world

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/spatialmath"
)

// BlockKind is the content of one block grid cell.
type BlockKind uint8

const (
	// BlockEmpty is air.
	BlockEmpty BlockKind = iota
	// BlockSolid is a collidable cube.
	BlockSolid
	// BlockSolidAlt is a collidable cube with the alternate material.
	BlockSolidAlt
	// BlockGate is a cube that is drawn but never collides.
	BlockGate
)

func (k BlockKind) String() string {
	switch k {
	case BlockEmpty:
		return "empty"
	case BlockSolid:
		return "solid"
	case BlockSolidAlt:
		return "solid-alt"
	case BlockGate:
		return "gate"
	default:
		return "unknown"
	}
}

// BlockGrid is a dense width x height x depth grid of blocks indexed (x, y, z).
type BlockGrid struct {
	width, height, depth int
	cells                []BlockKind
}

// NewBlockGrid returns an empty grid. Non-positive dimensions are an error.
func NewBlockGrid(width, height, depth int) (*BlockGrid, error) {
	if width <= 0 || height <= 0 || depth <= 0 {
		return nil, errors.Errorf("block grid dimensions must be positive, got %dx%dx%d", width, height, depth)
	}
	return &BlockGrid{
		width:  width,
		height: height,
		depth:  depth,
		cells:  make([]BlockKind, width*height*depth),
	}, nil
}

// BlockGridFromLayers builds a grid from layers[y][z][x]. All rows must have equal length.
func BlockGridFromLayers(layers [][][]int) (*BlockGrid, error) {
	if len(layers) == 0 || len(layers[0]) == 0 || len(layers[0][0]) == 0 {
		return nil, errors.New("block layers are empty")
	}
	g, err := NewBlockGrid(len(layers[0][0]), len(layers), len(layers[0]))
	if err != nil {
		return nil, err
	}
	for y, layer := range layers {
		if len(layer) != g.depth {
			return nil, errors.Errorf("layer %d has %d rows, want %d", y, len(layer), g.depth)
		}
		for z, row := range layer {
			if len(row) != g.width {
				return nil, errors.Errorf("layer %d row %d has %d blocks, want %d", y, z, len(row), g.width)
			}
			for x, v := range row {
				if v < int(BlockEmpty) || v > int(BlockGate) {
					return nil, errors.Errorf("block (%d, %d, %d) has unknown kind %d", x, y, z, v)
				}
				g.Set(x, y, z, BlockKind(v))
			}
		}
	}
	return g, nil
}

// Dims returns width, height and depth.
func (g *BlockGrid) Dims() (int, int, int) {
	return g.width, g.height, g.depth
}

func (g *BlockGrid) index(x, y, z int) (int, bool) {
	if x < 0 || y < 0 || z < 0 || x >= g.width || y >= g.height || z >= g.depth {
		return 0, false
	}
	return (y*g.depth+z)*g.width + x, true
}

// At returns the block at (x, y, z). Out of range coordinates return false.
func (g *BlockGrid) At(x, y, z int) (BlockKind, bool) {
	i, ok := g.index(x, y, z)
	if !ok {
		return BlockEmpty, false
	}
	return g.cells[i], true
}

// Set stores a block. Out of range coordinates are ignored and return false.
func (g *BlockGrid) Set(x, y, z int, kind BlockKind) bool {
	i, ok := g.index(x, y, z)
	if !ok {
		return false
	}
	g.cells[i] = kind
	return true
}

// cellCenter returns the world center of cell (x, y, z). The grid is centered on origin.
func (g *BlockGrid) cellCenter(x, y, z int, cubeSize float64, origin r3.Vector) r3.Vector {
	return r3.Vector{
		X: origin.X + (float64(x)-float64(g.width)/2)*cubeSize,
		Y: origin.Y + (float64(y)-float64(g.height)/2)*cubeSize,
		Z: origin.Z + (float64(z)-float64(g.depth)/2)*cubeSize,
	}
}

// WorldToGrid returns the cell whose cube contains p.
func (g *BlockGrid) WorldToGrid(p r3.Vector, cubeSize float64, origin r3.Vector) (x, y, z int) {
	conv := func(v, o float64, dim int) int {
		return int(math.Floor((v-o)/cubeSize + float64(dim)/2 + 0.5))
	}
	return conv(p.X, origin.X, g.width), conv(p.Y, origin.Y, g.height), conv(p.Z, origin.Z, g.depth)
}

// Placements returns one cube mesh per non-empty cell, in x, y, z order. Gates are placed
// without collision.
func (g *BlockGrid) Placements(ids *IDSource, cubeSize float64, origin r3.Vector) []MeshInstance {
	cube := NewCubeMesh(cubeSize, false)
	var out []MeshInstance
	for x := 0; x < g.width; x++ {
		for y := 0; y < g.height; y++ {
			for z := 0; z < g.depth; z++ {
				kind, _ := g.At(x, y, z)
				if kind == BlockEmpty {
					continue
				}
				tf := spatialmath.Translation(g.cellCenter(x, y, z, cubeSize, origin))
				out = append(out, NewPlacedMesh(ids.Next(), cube, tf, kind != BlockGate))
			}
		}
	}
	return out
}
