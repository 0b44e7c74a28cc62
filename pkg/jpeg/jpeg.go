// Package jpeg dissects a JFIF bitstream into its marker segments.
//
// Only the markers needed to drive RTP/MJPEG packetisation are
// interpreted: SOI, APPn, DQT, DHT, SOF0/SOF1, SOF2, DRI, SOS and EOI.
// The pixel-domain decode path (Huffman entropy decoding, inverse DCT)
// is out of scope; this package stops at locating the entropy-coded scan.
package jpeg

// Standard JFIF markers handled by the dissector.
const (
	markerPrefix = 0xFF

	MarkerStartOfImage            = 0xD8
	MarkerEndOfImage              = 0xD9
	MarkerStartOfScan             = 0xDA
	MarkerDefineQuantizationTable = 0xDB
	MarkerDefineHuffmanTable      = 0xC4
	MarkerDefineRestartInterval   = 0xDD
	MarkerStartOfFrame0           = 0xC0
	MarkerStartOfFrame1           = 0xC1
	MarkerStartOfFrame2           = 0xC2
	markerAPP0                    = 0xE0

	jfifSignature = "JFIF\x00"
)

// isStandalone reports whether a marker carries no length field
// (SOI/EOI and the restart markers RST0-RST7).
func isStandalone(marker byte) bool {
	if marker == MarkerStartOfImage || marker == MarkerEndOfImage {
		return true
	}
	return marker >= 0xD0 && marker <= 0xD7
}
