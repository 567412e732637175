package board

// NumLines is the number of straight lines of four cells through the cube.
const NumLines = 76

// WinningLines holds one mask per line. The order is significant: the
// tactical shortcuts scan it front to back and take the first match.
//
//   - 0..15   lines along z, one per (x, y)
//   - 16..31  lines along x, one per (y, z)
//   - 32..47  lines along y, one per (x, z)
//   - 48..71  diagonals of the 12 axis-aligned planes
//   - 72..75  space diagonals
var WinningLines = [NumLines]uint64{
	0xf, 0xf0, 0xf00, 0xf000, 0xf0000, 0xf00000, 0xf000000, 0xf0000000,
	0xf00000000, 0xf000000000, 0xf0000000000, 0xf00000000000,
	0xf000000000000, 0xf0000000000000, 0xf00000000000000, 0xf000000000000000,

	0x1000100010001, 0x2000200020002, 0x4000400040004, 0x8000800080008,
	0x10001000100010, 0x20002000200020, 0x40004000400040, 0x80008000800080,
	0x100010001000100, 0x200020002000200, 0x400040004000400, 0x800080008000800,
	0x1000100010001000, 0x2000200020002000, 0x4000400040004000, 0x8000800080008000,

	0x1111, 0x2222, 0x4444, 0x8888,
	0x11110000, 0x22220000, 0x44440000, 0x88880000,
	0x111100000000, 0x222200000000, 0x444400000000, 0x888800000000,
	0x1111000000000000, 0x2222000000000000, 0x4444000000000000, 0x8888000000000000,

	0x1000010000100001, 0x2000020000200002, 0x4000040000400004, 0x8000080000800008,
	0x8000400020001, 0x80004000200010, 0x800040002000100, 0x8000400020001000,
	0x8421, 0x84210000, 0x842100000000, 0x8421000000000000,
	0x1001001001000, 0x2002002002000, 0x4004004004000, 0x8008008008000,
	0x1000200040008, 0x10002000400080, 0x100020004000800, 0x1000200040008000,
	0x1248, 0x12480000, 0x124800000000, 0x1248000000000000,

	0x8000040000200001, 0x1002004008000, 0x8004002001000, 0x1000020000400008,
}
