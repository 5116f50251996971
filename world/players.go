package world

import (
	"sort"
	"sync"

	"github.com/golang/geo/r3"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/spatialmath"
)

// RemotePlayers tracks the last known position of every remote player. Positions are eye
// points; the capsule of a player stands on pos.y - 0.5*cubeSize.
type RemotePlayers struct {
	mu        sync.Mutex
	positions map[uuid.UUID]r3.Vector
	meshIDs   map[uuid.UUID]MeshID

	capsule  *Mesh
	cubeSize float64
}

// NewRemotePlayers returns an empty table. Players are drawn as capsules scaled to cubeSize.
func NewRemotePlayers(cubeSize float64) *RemotePlayers {
	return &RemotePlayers{
		positions: map[uuid.UUID]r3.Vector{},
		meshIDs:   map[uuid.UUID]MeshID{},
		capsule:   NewCapsuleMesh(0.2*cubeSize, 0.9*cubeSize, 8),
		cubeSize:  cubeSize,
	}
}

// Update records a player position.
func (rp *RemotePlayers) Update(id uuid.UUID, pos r3.Vector) {
	rp.mu.Lock()
	defer rp.mu.Unlock()
	rp.positions[id] = pos
}

// Remove forgets a player.
func (rp *RemotePlayers) Remove(id uuid.UUID) {
	rp.mu.Lock()
	defer rp.mu.Unlock()
	delete(rp.positions, id)
	delete(rp.meshIDs, id)
}

// Len returns the number of tracked players.
func (rp *RemotePlayers) Len() int {
	rp.mu.Lock()
	defer rp.mu.Unlock()
	return len(rp.positions)
}

// Positions returns a copy of the table.
func (rp *RemotePlayers) Positions() map[uuid.UUID]r3.Vector {
	rp.mu.Lock()
	defer rp.mu.Unlock()
	out := make(map[uuid.UUID]r3.Vector, len(rp.positions))
	for id, p := range rp.positions {
		out[id] = p
	}
	return out
}

// Meshes returns one collidable capsule per player, sorted by player id. A player keeps its
// MeshID across calls, so hits can be attributed between rebuilds.
func (rp *RemotePlayers) Meshes(ids *IDSource) []MeshInstance {
	rp.mu.Lock()
	defer rp.mu.Unlock()

	players := lo.Keys(rp.positions)
	sort.Slice(players, func(i, j int) bool { return players[i].String() < players[j].String() })

	capsuleHalfHeight := 0.45 * rp.cubeSize
	out := make([]MeshInstance, 0, len(players))
	for _, id := range players {
		meshID, ok := rp.meshIDs[id]
		if !ok {
			meshID = ids.Next()
			rp.meshIDs[id] = meshID
		}
		pos := rp.positions[id]
		feet := pos.Y - 0.5*rp.cubeSize
		tf := spatialmath.Translation(r3.Vector{X: pos.X, Y: feet + capsuleHalfHeight, Z: pos.Z})
		out = append(out, NewPlacedMesh(meshID, rp.capsule, tf, true))
	}
	return out
}
