package genai

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strconv"
)

const syntheticSize = 1024

// syntheticImage renders a deterministic placeholder square derived from the
// prompt, so local runs without an API key still exercise placeholder
// settlement, promotion, and export end-to-end.
func (c *Client) syntheticImage(prompt string) ImagePayload {
	seed := deterministicSeed(c.imageModel, prompt)

	img := image.NewRGBA(image.Rect(0, 0, syntheticSize, syntheticSize))
	base := colorFromSeed(seed, 0)
	accent := colorFromSeed(seed, 1)
	draw.Draw(img, img.Bounds(), &image.Uniform{base}, image.Point{}, draw.Src)

	stripeHeight := syntheticSize / 12
	for y := 0; y < syntheticSize; y += stripeHeight * 2 {
		stripe := image.Rect(0, y, syntheticSize, min(syntheticSize, y+stripeHeight))
		draw.Draw(img, stripe, &image.Uniform{accent}, image.Point{}, draw.Over)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return ImagePayload{}
	}
	return ImagePayload{Data: buf.Bytes(), MIMEType: "image/png"}
}

func deterministicSeed(parts ...string) string {
	hasher := sha256.New()
	for _, part := range parts {
		hasher.Write([]byte(part))
		hasher.Write([]byte{'|'})
	}
	return hex.EncodeToString(hasher.Sum(nil))[:16]
}

func colorFromSeed(seed string, shift int) color.RGBA {
	if seed == "" {
		seed = "000000"
	}
	doubled := seed + seed
	start := (shift * 6) % len(seed)
	segment := doubled[start : start+6]
	r := mustParseHexByte(segment[0:2])
	g := mustParseHexByte(segment[2:4])
	b := mustParseHexByte(segment[4:6])
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func mustParseHexByte(s string) uint8 {
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0
	}
	return uint8(v)
}
