package htmltext

import (
	"os"
	"strconv"
	"strings"
)

const (
	osc8Start      = "\x1b]8;;"
	osc8Terminator = "\x1b\\"
)

func osc8Link(href, label string) string {
	return osc8Start + href + osc8Terminator + label + osc8Start + osc8Terminator
}

// DetectOSC8Support returns true if the current environment likely supports OSC 8 hyperlinks.
func DetectOSC8Support() bool {
	if os.Getenv("OSC8") == "0" {
		return false
	}
	if os.Getenv("DOMTERM") != "" || os.Getenv("WT_SESSION") != "" {
		return true
	}
	switch os.Getenv("TERM_PROGRAM") {
	case "iTerm.app", "WezTerm", "vscode", "ghostty":
		return true
	}
	if strings.Contains(strings.ToLower(os.Getenv("TERM")), "kitty") {
		return true
	}
	n, err := strconv.Atoi(os.Getenv("VTE_VERSION"))
	return err == nil && n >= 5000
}
