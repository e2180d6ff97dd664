package scanning

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"strings"
)

// receiptScanPrompt is shared by all providers
const receiptScanPrompt = `You are reading a receipt attached to an employee expense report. Carefully read all text in the image and extract:

1. **Name**: the merchant or a short description of the expense, e.g. "Hôtel du Centre" or "Vol Paris Londres".

2. **Date**: the transaction date, converted to ISO 8601 (YYYY-MM-DD). Receipts are usually French, so 04/05/2023 means 4 May 2023.

3. **Amount**: the total including taxes (TTC), as a number in euros.

4. **VAT**: the VAT amount (TVA) in euros, or 0 if not printed.

Return ONLY valid JSON in this exact format:
{
  "name": "Merchant - Brief Description",
  "date": "YYYY-MM-DD",
  "amount": 0.00,
  "vat": 0.00
}

Important:
- Numbers must be numbers, not strings
- If you cannot find a field, use null for that field
- Do not include any text before or after the JSON
- Do not use markdown code blocks`

// toPNG re-encodes a JPEG receipt as PNG; PNG input is returned unchanged
func toPNG(imageData []byte, contentType string) ([]byte, error) {
	mimeType := strings.ToLower(strings.TrimSpace(contentType))
	if mimeType == "image/png" {
		return imageData, nil
	}

	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}
