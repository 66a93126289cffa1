// Package util 命令行启动辅助
package util

import (
	"errors"
	"os/exec"
	"runtime"
)

// browserCommands 各平台打开 URL 的候选命令，按顺序尝试
func browserCommands(goos, url string) [][]string {
	switch goos {
	case "windows":
		// rundll32 在 Windows 7 上比 cmd /c start 稳定
		return [][]string{
			{"rundll32", "url.dll,FileProtocolHandler", url},
			{"explorer", url},
		}
	case "darwin":
		return [][]string{{"open", url}}
	default:
		return [][]string{
			{"xdg-open", url},
			{"sensible-browser", url},
			{"google-chrome", url},
			{"firefox", url},
		}
	}
}

// OpenBrowser 打开默认浏览器，全部候选命令都失败时返回第一个错误
func OpenBrowser(url string) error {
	var first error
	for _, argv := range browserCommands(runtime.GOOS, url) {
		err := exec.Command(argv[0], argv[1:]...).Start()
		if err == nil {
			return nil
		}
		if first == nil {
			first = err
		}
	}
	if first == nil {
		first = errors.New("no browser command available")
	}
	return first
}
