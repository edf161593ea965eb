/*
Package yt writes yave texture (.yt) containers: a small fixed header
followed by a full mipmap chain, each level encoded as raw RGBA8 or
block-compressed BC1/BC5.

The header is seven little-endian uint32 words: the "yave" magic, image
type, version, width, height, mip count and format id. The mip count is not
known until the chain is encoded, so it is written as 0 and patched in place
once the last level is out. Level payloads follow the header largest first,
without length prefixes; a reader derives each length from the format id and
the level dimensions (see Header.LevelSizes).

Mip levels halve each axis with floor division down to 1x1. A failing level
encode after the base level ends the chain early instead of failing the file.
*/
package yt
