package storage

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrArtifactNotFound по ссылке ничего не сохранено.
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrInvalidRef ссылка или её части недопустимы (пустые, с разделителями пути).
	ErrInvalidRef = errors.New("invalid artifact reference")
)

// makeRef собирает ссылку "<requestID>/<name>".
func makeRef(requestID, name string) (string, error) {
	if !validSegment(requestID) || !validSegment(name) {
		return "", fmt.Errorf("%w: %q/%q", ErrInvalidRef, requestID, name)
	}
	return requestID + "/" + name, nil
}

// splitRef разбирает ссылку обратно, отклоняя всё, что может выйти за корень.
func splitRef(ref string) (requestID, name string, err error) {
	parts := strings.Split(ref, "/")
	if len(parts) != 2 || !validSegment(parts[0]) || !validSegment(parts[1]) {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidRef, ref)
	}
	return parts[0], parts[1], nil
}

func validSegment(s string) bool {
	if s == "" || s == "." || s == ".." {
		return false
	}
	return !strings.ContainsAny(s, `/\`+"\x00")
}
