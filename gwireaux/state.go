package gwireaux

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/gwire"
)

// State is the application state of the wireframe viewer.
// State is not safe for concurrent use.
type State struct {
	shape       gwire.ShapeKind
	edgeRemoval bool
	Background  ms3.Vec
	Params      Params

	geom   gwire.UnindexedMesh
	geomID uuid.UUID
	bld    gwire.Builder
}

// NewState returns the startup state: a torus knot with edge removal
// and the default palette and shader parameters.
func NewState() (*State, error) {
	st := &State{
		shape:       gwire.TorusKnot,
		edgeRemoval: true,
		Background:  DefaultPalette().Background(),
		Params:      DefaultParams(),
	}
	st.bld.SetFlags(gwire.FlagNoDimensionPanic)
	err := st.rebuild(st.shape, st.edgeRemoval)
	if err != nil {
		return nil, err
	}
	return st, nil
}

// Shape returns the kind of the displayed shape.
func (st *State) Shape() gwire.ShapeKind { return st.shape }

// EdgeRemoval reports whether triangulation diagonals are hidden.
func (st *State) EdgeRemoval() bool { return st.edgeRemoval }

// Geometry returns the displayed wireframe mesh and its generation id. The id
// changes every time the geometry is rebuilt.
func (st *State) Geometry() (gwire.UnindexedMesh, uuid.UUID) { return st.geom, st.geomID }

// SetShape replaces the displayed geometry with a new shape. On error the previous geometry is kept.
func (st *State) SetShape(kind gwire.ShapeKind) error {
	return st.rebuild(kind, st.edgeRemoval)
}

// SetEdgeRemoval rebuilds the geometry with or without triangulation diagonals. On error the previous geometry is kept.
func (st *State) SetEdgeRemoval(remove bool) error {
	return st.rebuild(st.shape, remove)
}

func (st *State) rebuild(kind gwire.ShapeKind, removeEdges bool) error {
	st.bld.ClearErrors()
	m, err := st.bld.NewShape(kind)
	if err != nil {
		return fmt.Errorf("creating %s: %w", kind, err)
	}
	wire, err := gwire.Wireframe(m, removeEdges)
	if err != nil {
		return fmt.Errorf("wireframe of %s: %w", kind, err)
	}
	id, err := uuid.NewV7()
	if err != nil {
		return err
	}
	st.shape = kind
	st.edgeRemoval = removeEdges
	st.geom = wire
	st.geomID = id
	return nil
}

// ApplyPalette sets the background, fill and stroke colors from the palette.
func (st *State) ApplyPalette(p Palette) error {
	if len(p) < 3 {
		return fmt.Errorf("palette requires at least 3 colors, got %d", len(p))
	}
	st.Background = p.Background()
	st.Params.Fill = p.Fill()
	st.Params.Stroke = p.Stroke()
	return nil
}

// RandomizePalette applies a random built in palette.
func (st *State) RandomizePalette(rng *rand.Rand) error {
	return st.ApplyPalette(RandomPalette(rng))
}
