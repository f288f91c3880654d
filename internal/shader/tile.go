package shader

// Tile is a rectangular sub-region of the output image, the unit of
// parallel work. X0/Y0 are inclusive, X1/Y1 exclusive.
type Tile struct {
	X0, Y0, X1, Y1 int
}

// Tiles partitions a width x height grid into tiles of at most size x size
// pixels, clipped at the right and bottom edges. The tiles cover every pixel
// exactly once, with no gaps or overlaps.
func Tiles(width, height, size int) []Tile {
	if width <= 0 || height <= 0 || size <= 0 {
		return nil
	}
	nx := (width + size - 1) / size
	ny := (height + size - 1) / size
	tiles := make([]Tile, 0, nx*ny)
	for y := 0; y < height; y += size {
		y1 := y + size
		if y1 > height {
			y1 = height
		}
		for x := 0; x < width; x += size {
			x1 := x + size
			if x1 > width {
				x1 = width
			}
			tiles = append(tiles, Tile{X0: x, Y0: y, X1: x1, Y1: y1})
		}
	}
	return tiles
}
