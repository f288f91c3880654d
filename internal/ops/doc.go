// Package ops provides the image-processing primitives behind the node set:
// geometric transforms (translate, rotate, scale, edge wrapping, scale-fit),
// mirroring and extension, blend operators with mask and alpha, color
// adjustments (invert, gamma, contrast, exposure, HSV, threshold),
// convolution filters, procedural shape rasterization, and simple
// projections.
//
// All operations take and return standard Go images; the working type is
// *image.NRGBA. Operations never mutate their inputs.
//
// # Coordinate conventions
//
// Fractional offsets are expressed relative to the image size: a translate
// offset of 0.5 shifts by half the width or height. Angles are degrees,
// positive clockwise. Scale-fit modes are NONE (leave as is), FIT (exact
// resize), ASPECT (uniform scale by the larger target edge), and CROP
// (center crop to the target size).
package ops
