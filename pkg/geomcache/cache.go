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

// Package geomcache deduplicates grid geometries shared by many rasters.
//
// Grid geometries are immutable, so handing the same instance to every caller
// has no observable effect besides saving memory and construction time.
package geomcache

import (
	"fmt"
	"strings"

	"github.com/airbusgeo/gridgeom"
	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/singleflight"
)

const (
	internPrefix = "geom-"
	buildPrefix  = "build-"
)

// Pool is a bounded, concurrent-safe set of canonical GridGeometry2D instances.
type Pool struct {
	c     *lru.Cache
	build singleflight.Group
}

// NewPool creates a pool holding at most entries geometries
func NewPool(entries uint) (*Pool, error) {
	c, err := lru.New(int(entries))
	if err != nil {
		return nil, fmt.Errorf("lru.new: %w", err)
	}
	return &Pool{c: c}, nil
}

// Intern returns the pooled geometry structurally equal to g, adding g to the pool
// if there is none. Geometries whose transform cannot provide a key are returned
// as is.
func (p *Pool) Intern(g *gridgeom.GridGeometry2D) *gridgeom.GridGeometry2D {
	if g == nil {
		return nil
	}
	k, ok := g.Key()
	if !ok {
		return g
	}
	k = internPrefix + k
	if cg, ok := p.c.Get(k); ok {
		if pooled := cg.(*gridgeom.GridGeometry2D); pooled.Equal(g) {
			return pooled
		}
	}
	p.c.Add(k, g)
	return g
}

// GetOrBuild returns the geometry registered under key, calling build if there is
// none. Concurrent calls for the same key share a single call to build. Build
// errors are not cached.
func (p *Pool) GetOrBuild(key string, build func() (*gridgeom.GridGeometry2D, error)) (*gridgeom.GridGeometry2D, error) {
	k := buildPrefix + key
	if cg, ok := p.c.Get(k); ok {
		return cg.(*gridgeom.GridGeometry2D), nil
	}
	v, err, _ := p.build.Do(k, func() (interface{}, error) {
		if cg, ok := p.c.Get(k); ok {
			return cg, nil
		}
		g, err := build()
		if err != nil {
			return nil, err
		}
		g = p.Intern(g)
		p.c.Add(k, g)
		return g, nil
	})
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", key, err)
	}
	return v.(*gridgeom.GridGeometry2D), nil
}

// Forget removes the geometries registered with GetOrBuild under a key starting
// with prefix. Interned geometries are left untouched.
func (p *Pool) Forget(prefix string) {
	prefix = buildPrefix + prefix
	for _, k := range p.c.Keys() {
		if strings.HasPrefix(k.(string), prefix) {
			p.c.Remove(k)
		}
	}
}

// Len returns the number of cached entries
func (p *Pool) Len() int {
	return p.c.Len()
}

// Purge empties the pool
func (p *Pool) Purge() {
	p.c.Purge()
}
