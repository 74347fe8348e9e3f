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

// Package gridgeom maps the cells of N-dimensional rasters to world coordinates
// and back.
//
// A GridGeometry pairs a GridExtent (the valid cell indices) with a Transform
// mapping grid coordinates to world coordinates. Transforms map cell centers: cell
// index i along an axis is the center of that cell, and the world envelope of a
// grid is the image of the box [lower-0.5, upper-0.5) on each axis.
//
// GridGeometry2D restricts an N-dimensional geometry to the two grid axes that
// span more than one cell, which is what raster access layers need to convert
// pixel coordinates to world coordinates and vice versa.
//
// All types are immutable once created and safe for concurrent use.
package gridgeom
