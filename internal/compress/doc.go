// Package compress implements the block framing used for compressed bulk
// import files.
//
// A body is a sequence of frames, each holding at most BlockSize bytes of
// input: [uncompressed size u32][compressed size u32][data]. A compressed
// size of zero marks a frame stored raw, which happens whenever compression
// saves less than ten percent.
package compress
