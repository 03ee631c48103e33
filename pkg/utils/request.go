package utils

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"

	"github.com/echomind/echomind/internal/model/chat"
)

// maxEntryBytes bounds request bodies accepted by the journal endpoints.
const maxEntryBytes = 64 << 10

// ErrInvalidEntry reports a body that is not {"text": string}.
var ErrInvalidEntry = errors.New("invalid request body: expected {\"text\": string}")

// DecodeEntry reads a journal entry body and returns its text.
func DecodeEntry(w http.ResponseWriter, r *http.Request) (string, error) {
	var entry chat.JournalEntry
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEntryBytes)).Decode(&entry); err != nil {
		if errors.Is(err, io.EOF) {
			return "", ErrInvalidEntry
		}
		return "", errors.Wrap(ErrInvalidEntry, err.Error())
	}
	if entry.Text == nil {
		return "", ErrInvalidEntry
	}
	return *entry.Text, nil
}
