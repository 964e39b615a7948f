package report

import (
	"encoding/base64"
	"strconv"
	"strings"
	"time"
)

// EMLInput describes one outgoing draft message.
type EMLInput struct {
	To          string
	CC          string
	Subject     string
	Body        string
	PDF         []byte
	PDFFilename string
}

// BuildEML renders an RFC 822 draft with the form PDF attached. The
// X-Unsent header makes Outlook open it as an editable draft instead of a
// received message.
func BuildEML(in EMLInput) []byte {
	boundary := "----=_Part_" + strconv.FormatInt(time.Now().UnixMilli(), 36)

	var b strings.Builder
	b.WriteString("From: \r\n")
	b.WriteString("To: " + in.To + "\r\n")
	if in.CC != "" {
		b.WriteString("CC: " + in.CC + "\r\n")
	}
	b.WriteString("Subject: " + in.Subject + "\r\n")
	b.WriteString("X-Unsent: 1\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: multipart/mixed; boundary=\"" + boundary + "\"\r\n\r\n")

	b.WriteString("--" + boundary + "\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("Content-Transfer-Encoding: 7bit\r\n\r\n")
	b.WriteString(strings.ReplaceAll(in.Body, "\n", "\r\n"))
	b.WriteString("\r\n\r\n")

	b.WriteString("--" + boundary + "\r\n")
	b.WriteString("Content-Type: application/pdf; name=\"" + in.PDFFilename + "\"\r\n")
	b.WriteString("Content-Transfer-Encoding: base64\r\n")
	b.WriteString("Content-Disposition: attachment; filename=\"" + in.PDFFilename + "\"\r\n\r\n")

	encoded := base64.StdEncoding.EncodeToString(in.PDF)
	for i := 0; i < len(encoded); i += 76 {
		end := i + 76
		if end > len(encoded) {
			end = len(encoded)
		}
		b.WriteString(encoded[i:end] + "\r\n")
	}

	b.WriteString("\r\n--" + boundary + "--\r\n")
	return []byte(b.String())
}
