package remote

import (
	"fmt"
	"strings"
)

// Kind selects the read strategy at startup.
type Kind string

const (
	KindAuto Kind = "auto"
	KindPeek Kind = "peek"
	KindBulk Kind = "bulk"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindAuto, KindPeek, KindBulk:
		return k, nil
	case "":
		return KindAuto, nil
	default:
		return "", fmt.Errorf("unknown reader %q (want auto, peek or bulk)", s)
	}
}
