package gridgeom

// Block is the part of a pixel window falling inside one block of a raster
// tiled with fixed size blocks. Blocks are aligned on grid index 0.
type Block struct {
	GridRect
	// BlockX, BlockY are the indices of the raster block
	BlockX, BlockY int
	win            GridRect
	bw, bh         int //block size
	bx0, bx1       int //block columns touched by win
	by1            int //last block row, exclusive
}

// FirstBlock returns the first block touched by win, in scanline order. It
// returns Block{},false if win is empty. Block sizes must be strictly positive.
func FirstBlock(win GridRect, blockSizeX, blockSizeY int) (Block, bool) {
	if win.Empty() || blockSizeX <= 0 || blockSizeY <= 0 {
		return Block{}, false
	}
	b := Block{
		win: win,
		bw:  blockSizeX,
		bh:  blockSizeY,
		bx0: floorDiv(win.X0, blockSizeX),
		bx1: floorDiv(win.X1()-1, blockSizeX) + 1,
		by1: floorDiv(win.Y1()-1, blockSizeY) + 1,
	}
	b.BlockX, b.BlockY = b.bx0, floorDiv(win.Y0, blockSizeY)
	b.clip()
	return b, true
}

// Next returns the following block in scanline order. It returns Block{},false
// when there are no more blocks touched by the window.
func (b Block) Next() (Block, bool) {
	nb := b
	nb.BlockX++
	if nb.BlockX >= nb.bx1 {
		nb.BlockX = nb.bx0
		nb.BlockY++
	}
	if nb.BlockY >= nb.by1 {
		return Block{}, false
	}
	nb.clip()
	return nb, true
}

func (b *Block) clip() {
	b.GridRect = GridRect{
		X0: b.BlockX * b.bw,
		Y0: b.BlockY * b.bh,
		W:  b.bw,
		H:  b.bh,
	}.Intersect(b.win)
}

// BlockCount returns the number of blocks touched by win in the x and y dimensions
func BlockCount(win GridRect, blockSizeX, blockSizeY int) (int, int) {
	if win.Empty() || blockSizeX <= 0 || blockSizeY <= 0 {
		return 0, 0
	}
	return floorDiv(win.X1()-1, blockSizeX) - floorDiv(win.X0, blockSizeX) + 1,
		floorDiv(win.Y1()-1, blockSizeY) - floorDiv(win.Y0, blockSizeY) + 1
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
