// Copyright 2021 Airbus Defence and Space
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package mosaic indexes the grid geometries of a collection of rasters sharing a
// world coordinate system, and finds the pixel windows needed to cover a world
// area.
package mosaic

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/airbusgeo/gridgeom"
	"github.com/airbusgeo/gridgeom/pkg/geomcache"
	"github.com/dhconnelly/rtreego"
)

// ErrDuplicateName is returned when adding a raster whose name is already indexed
var ErrDuplicateName = errors.New("duplicate raster name")

// minLength pads degenerate rectangles, which rtreego refuses
const minLength = 1e-9

// Entry is an indexed raster
type Entry struct {
	Name     string
	Geometry *gridgeom.GridGeometry2D
	// World is the extent covered by the raster, in world coordinates
	World gridgeom.Bounds
}

// Bounds implements rtreego.Spatial
func (e *Entry) Bounds() rtreego.Rect {
	return toRect(e.World)
}

func toRect(b gridgeom.Bounds) rtreego.Rect {
	r, _ := rtreego.NewRect(rtreego.Point{b.MinX(), b.MinY()}, []float64{
		math.Max(b.Width(), minLength),
		math.Max(b.Height(), minLength),
	})
	return r
}

// Window is the part of a raster needed to cover a world area
type Window struct {
	Name     string
	Geometry *gridgeom.GridGeometry2D
	Rect     gridgeom.GridRect
}

// FirstBlock returns the first of the raster blocks touched by the window, for a
// raster tiled with blockSizeX x blockSizeY blocks
func (w Window) FirstBlock(blockSizeX, blockSizeY int) (gridgeom.Block, bool) {
	return gridgeom.FirstBlock(w.Rect, blockSizeX, blockSizeY)
}

// Cell is a pixel of a raster
type Cell struct {
	Name string
	X, Y int
}

type mosaicOpts struct {
	errorHandler gridgeom.ErrorHandler
	pool         *geomcache.Pool
}

// Option is an option that can be passed to New
type Option interface {
	setMosaicOpt(o *mosaicOpts)
}

type errorCallback struct {
	fn gridgeom.ErrorHandler
}

// ErrLogger sets the handler receiving the non fatal errors encountered while
// indexing and querying rasters: misoriented rasters, and rasters whose inverse
// transform fails for the queried area.
func ErrLogger(fn gridgeom.ErrorHandler) Option {
	return errorCallback{fn}
}

func (ec errorCallback) setMosaicOpt(o *mosaicOpts) {
	o.errorHandler = ec.fn
}

type poolOpt struct {
	p *geomcache.Pool
}

// Pool deduplicates the geometries of the indexed rasters through p
func Pool(p *geomcache.Pool) Option {
	return poolOpt{p}
}

func (po poolOpt) setMosaicOpt(o *mosaicOpts) {
	o.pool = po.p
}

// Mosaic is a spatial index of rasters. It is safe for concurrent use.
type Mosaic struct {
	mu       sync.RWMutex
	tree     *rtreego.Rtree
	entries  map[string]*Entry
	inverted []bool
	opts     mosaicOpts
}

// New creates an empty mosaic
func New(opts ...Option) *Mosaic {
	m := &Mosaic{
		tree:    rtreego.NewTree(2, 25, 50),
		entries: make(map[string]*Entry),
	}
	for _, o := range opts {
		o.setMosaicOpt(&m.opts)
	}
	return m
}

func (m *Mosaic) report(err error) {
	if m.opts.errorHandler != nil {
		m.opts.errorHandler(err)
	}
}

func (m *Mosaic) logger() gridgeom.ErrorHandler {
	return func(err error) {
		m.report(err)
	}
}

// Add indexes the raster named name. g must carry both a grid range and a
// transform to world coordinates.
//
// The axis orientation of the first raster is used as the reference for the
// mosaic: rasters with a different orientation are indexed anyway, and reported
// to the ErrLogger handler.
func (m *Mosaic) Add(name string, g *gridgeom.GridGeometry2D) error {
	world, err := g.Bounds()
	if err != nil {
		return fmt.Errorf("add %s: %w", name, err)
	}
	if m.opts.pool != nil {
		g = m.opts.pool.Intern(g)
	}
	inverted, ok := g.AreAxisInverted(gridgeom.ErrLogger(m.logger()))

	m.mu.Lock()
	if _, exists := m.entries[name]; exists {
		m.mu.Unlock()
		return fmt.Errorf("add %s: %w", name, ErrDuplicateName)
	}
	var reference []bool
	if ok {
		if m.inverted == nil {
			m.inverted = inverted
		}
		reference = m.inverted
	}
	e := &Entry{Name: name, Geometry: g, World: world}
	m.entries[name] = e
	m.tree.Insert(e)
	m.mu.Unlock()

	if ok && !sameOrientation(reference, inverted) {
		m.report(fmt.Errorf("%s: axis inversion %v differs from mosaic %v", name, inverted, reference))
	}
	return nil
}

func sameOrientation(a, b []bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Remove removes the raster named name from the index. It returns false if no such
// raster was indexed.
func (m *Mosaic) Remove(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[name]
	if !ok {
		return false
	}
	delete(m.entries, name)
	m.tree.Delete(e)
	if len(m.entries) == 0 {
		m.inverted = nil
	}
	return true
}

// Get returns the raster named name
func (m *Mosaic) Get(name string) (Entry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[name]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Len returns the number of indexed rasters
func (m *Mosaic) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Bounds returns the union of the world extents of the indexed rasters
func (m *Mosaic) Bounds() (gridgeom.Bounds, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var ret gridgeom.Bounds
	first := true
	for _, e := range m.entries {
		if first {
			ret = e.World
			first = false
			continue
		}
		ret = ret.Union(e.World)
	}
	return ret, !first
}

func (m *Mosaic) search(r rtreego.Rect) []*Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	found := m.tree.SearchIntersect(r)
	entries := make([]*Entry, len(found))
	for i, s := range found {
		entries[i] = s.(*Entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// Query returns, for each raster intersecting b, the window of pixels intersecting
// b, clipped to the raster's grid range. Windows are sorted by raster name.
func (m *Mosaic) Query(b gridgeom.Bounds) []Window {
	b = gridgeom.EnvelopeFromBounds(b).Bounds(0, 1)
	var windows []Window
	for _, e := range m.search(toRect(b)) {
		r, err := e.Geometry.InverseTransformWindow(b)
		if err != nil {
			m.report(fmt.Errorf("%s: %w", e.Name, err))
			continue
		}
		full, err := e.Geometry.GridRange2D()
		if err != nil {
			m.report(fmt.Errorf("%s: %w", e.Name, err))
			continue
		}
		r = r.Intersect(full)
		if r.Empty() {
			continue
		}
		windows = append(windows, Window{Name: e.Name, Geometry: e.Geometry, Rect: r})
	}
	return windows
}

// Locate returns the pixels containing the world point p, one per raster covering
// p. Cells are sorted by raster name.
func (m *Mosaic) Locate(p gridgeom.Point) []Cell {
	var cells []Cell
	for _, e := range m.search(rtreego.Point{p.X, p.Y}.ToRect(minLength)) {
		x, y, err := e.Geometry.InverseTransformCell(p)
		if err != nil {
			m.report(fmt.Errorf("%s: %w", e.Name, err))
			continue
		}
		full, err := e.Geometry.GridRange2D()
		if err != nil {
			m.report(fmt.Errorf("%s: %w", e.Name, err))
			continue
		}
		if x < full.X0 || x >= full.X1() || y < full.Y0 || y >= full.Y1() {
			continue
		}
		cells = append(cells, Cell{Name: e.Name, X: x, Y: y})
	}
	return cells
}
