package render

import "bytes"

// sanitizeSVG normalizes CSS colour spellings oksvg rejects.
func sanitizeSVG(svg []byte) []byte {
	fixed := bytes.ReplaceAll(svg, []byte("fill: #"), []byte("fill:#"))
	fixed = bytes.ReplaceAll(fixed, []byte("stroke: #"), []byte("stroke:#"))
	fixed = bytes.ReplaceAll(fixed, []byte("stop-color: #"), []byte("stop-color:#"))
	return fixed
}

// colorizeSVG fills in the %FILL% and %STROKE% placeholders of a piece template.
func colorizeSVG(tmpl []byte, fill, stroke string) []byte {
	out := bytes.ReplaceAll(tmpl, []byte("%FILL%"), []byte(fill))
	return bytes.ReplaceAll(out, []byte("%STROKE%"), []byte(stroke))
}
