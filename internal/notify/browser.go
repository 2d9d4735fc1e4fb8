// pattern: Imperative Shell

package notify

import (
	"os"
	"os/exec"
	"runtime"
)

// OpenBrowser hands url to the platform's opener.
func OpenBrowser(url string) error {
	name, args := browserCommand(runtime.GOOS, isWSL(), url)
	return exec.Command(name, args...).Start()
}

func browserCommand(goos string, wsl bool, url string) (string, []string) {
	switch {
	case wsl:
		return "wslview", []string{url}
	case goos == "darwin":
		return "open", []string{url}
	case goos == "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}

func isWSL() bool {
	_, err := os.Stat("/proc/sys/fs/binfmt_misc/WSLInterop")
	return err == nil
}
