/*
Package dxt1 compresses 4x4 pixel blocks into BC1 (DXT1) and writes the
result as DDS or Arma/DayZ EDDS textures.

The core is Optimizer, a per-block endpoint search. Compute deduplicates the
block colors, fits a principal axis in a perceptual or uniform color space,
then refines the 565 endpoint pair by a quality-dependent sequence of
neighborhood climbs, least-squares refits and punch-through trials. Every
candidate is scored at most once per block and the best pair is packed into
the exact 8-byte BC1 layout.

Higher Quality levels run a superset of the work of lower levels, so the
reported error never increases with quality for the same block.

EncodeImage runs optimizers over an image in parallel. WriteDDS, WriteEDDS
and WriteFile add a mip chain and a container; EDDS bodies may be stored as
Enfusion LZ4 chunk streams. Read and ReadPayload load DXT1 DDS/EDDS files back.
*/
package dxt1
