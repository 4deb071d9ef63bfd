package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/DeusData/codebase-atlas/internal/selfupdate"
)

// Version is the release this build identifies as. Release builds override
// it through ldflags.
var Version = "0.1.0"

// checkForUpdate asks GitHub for the latest release and stages a notice
// when a newer version exists. Every failure mode stays silent; an update
// hint is never worth failing a tool call over.
func (s *Server) checkForUpdate() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	release, err := selfupdate.FetchLatestRelease(ctx)
	if err != nil {
		return
	}
	latest := release.LatestVersion()
	if latest == "" || selfupdate.CompareVersions(latest, Version) <= 0 {
		return
	}
	s.updateNotice.Store(fmt.Sprintf(
		"codebase-atlas v%s is available (running v%s). Run: codebase-atlas update",
		latest, Version))
}

// addUpdateNotice prepends the staged notice to the first result produced
// after the check landed. Subsequent results are left untouched.
func (s *Server) addUpdateNotice(res *mcp.CallToolResult) {
	notice, _ := s.updateNotice.Load().(string)
	if notice == "" {
		return
	}
	if !s.noticeShown.CompareAndSwap(false, true) {
		return
	}
	res.Content = append([]mcp.Content{&mcp.TextContent{Text: notice}}, res.Content...)
}
