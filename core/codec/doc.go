// Package codec implements the byte-sliced encoding used for the bulk
// uint32 arrays inside safebrowsing store files.
//
// Many of the 4-byte values stored there (chunk ids, sorted prefixes) are
// strongly correlated in their upper bytes and close to random in the low
// byte. DEFLATE needs match lengths of at least 3 to compress well, so the
// format slices a 32-bit array into four 1-byte slices and compresses only
// the three most significant ones; the LSB slice is stored raw.
//
// # Wire layout of a sliced array of N values
//
//	uint32 compressed-size
//	compressed-size bytes    zlib data -> N bytes, MSB slice
//	uint32 compressed-size
//	compressed-size bytes    zlib data -> N bytes, 2nd-byte slice
//	uint32 compressed-size
//	compressed-size bytes    zlib data -> N bytes, 3rd-byte slice
//	N bytes                  raw LSB slice
//
// All integers are little-endian. Reassembly is
// v[i] = msb[i]<<24 | b2[i]<<16 | b3[i]<<8 | lsb[i]; this ordering is
// load-bearing for compatibility with the on-disk files.
//
// # Usage
//
//	values, err := codec.DecodeSliced(reader, header.NumAddPrefixes)
package codec
