package occlusion

import (
	"context"

	"github.com/golang/geo/r3"
	"golang.org/x/sync/errgroup"

	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/bvh"
	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/partition"
	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/utils"
	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/world"
)

// sampleNudge lifts face samples off their surface before casting toward a light.
const sampleNudge = 1e-4

// Light is a point light with a finite reach.
type Light struct {
	Position r3.Vector
	Radius   float64
}

// FaceRef names one face of one mesh.
type FaceRef struct {
	Mesh world.MeshID
	Face int
}

// Visibility maps each face in reach of a light to the fraction of its samples that see it.
type Visibility map[FaceRef]float64

// FaceVisibility samples every face of every collision mesh within the light radius. The
// samples are the face corners and its center. Faces turned away from the light score 0.
func (t *Tester) FaceVisibility(light Light) Visibility {
	return faceVisibility(t.index.Snapshot(), light)
}

func faceVisibility(snap partition.Snapshot, light Light) Visibility {
	out := Visibility{}
	for _, c := range snap.MeshesWithin(light.Position, light.Radius) {
		verts := c.Mesh.TransformedVertices()
		for faceIdx, face := range c.Mesh.Faces() {
			normal := world.FaceNormal(c.Mesh, faceIdx)
			if normal == (r3.Vector{}) || !validFace(face, len(verts)) {
				continue
			}
			ref := FaceRef{Mesh: c.Mesh.ID(), Face: faceIdx}
			samples := faceSamples(verts, face)
			if normal.Dot(light.Position.Sub(samples[len(samples)-1])) <= 0 {
				out[ref] = 0
				continue
			}
			ignore := bvh.Ignore{Mesh: ref.Mesh, Face: ref.Face}
			lit := 0
			for _, s := range samples {
				from := s.Add(normal.Mul(sampleNudge))
				if from.Distance(light.Position) > light.Radius {
					continue
				}
				if lineOfSight(snap, from, light.Position, ignore) {
					lit++
				}
			}
			out[ref] = float64(lit) / float64(len(samples))
		}
	}
	return out
}

func validFace(face []int, n int) bool {
	for _, i := range face {
		if i < 0 || i >= n {
			return false
		}
	}
	return true
}

// faceSamples returns the corners of face followed by their mean.
func faceSamples(verts []r3.Vector, face []int) []r3.Vector {
	out := make([]r3.Vector, 0, len(face)+1)
	center := r3.Vector{}
	for _, i := range face {
		out = append(out, verts[i])
		center = center.Add(verts[i])
	}
	return append(out, center.Mul(1/float64(len(face))))
}

// SampleLights computes FaceVisibility for every light against one snapshot, at most
// utils.ParallelFactor lights at a time. Results are in light order.
func (t *Tester) SampleLights(ctx context.Context, lights []Light) ([]Visibility, error) {
	snap := t.index.Snapshot()
	out := make([]Visibility, len(lights))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(utils.ParallelFactor)
	for i, light := range lights {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = faceVisibility(snap, light)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	t.logger.Debugw("sampled lights", "lights", len(lights))
	return out, nil
}
