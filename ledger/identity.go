package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/sjlouji/friday/ast"
	"github.com/sjlouji/friday/formatter"
)

// TransactionID returns the identity of a transaction. An explicit
// "id" metadata entry wins; otherwise the id is derived from the
// content: the date followed by a truncated SHA-256 over the canonical
// serialization of (payee, narration, postings). A content hash keeps
// derived ids stable across restarts and hosts, unlike a runtime hash
// with a per-process seed.
func TransactionID(t *ast.Transaction) string {
	for _, m := range t.Metadata {
		if m.Key == "id" && m.Value != "" {
			return m.Value
		}
	}

	return t.Date.String() + "-" + contentHash(t)
}

func contentHash(t *ast.Transaction) string {
	f := formatter.New()

	var b strings.Builder
	b.WriteString(t.Payee)
	b.WriteByte(0)
	b.WriteString(t.Narration)
	b.WriteByte(0)
	for _, p := range t.Postings {
		b.WriteString(f.FormatPosting(p))
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:8])
}
