// Package value defines the data that flows between the input converters,
// the transformation engine and the output converters.
//
// Package: value
// Title: Row and Value Model
// Description: A Row is a slice of Cells. A Cell records whether the source
//              record had a value at that position at all, so that an absent
//              field can be told apart from an explicit null. Shaped output
//              uses plain []any lists plus the Tuple, Set and ordered Dict
//              types defined here.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation
package value
