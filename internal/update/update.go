package update

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

// Overridable in tests.
var releasesURL = "https://api.github.com/repos/yoojuneho/Fair-or-Framed/releases?per_page=10"

// Result holds the outcome of a version check.
type Result struct {
	LatestVersion string
	URL           string
}

type ghRelease struct {
	TagName    string `json:"tag_name"`
	HTMLURL    string `json:"html_url"`
	Draft      bool   `json:"draft"`
	Prerelease bool   `json:"prerelease"`
}

// Check queries the GitHub Releases API to see if a newer stable version is
// available. Drafts and prereleases are skipped so the prompt only points at
// builds that match published study results. Returns nil on any error
// (non-fatal).
func Check(ctx context.Context, currentVersion string) *Result {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, releasesURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	var releases []ghRelease
	if err := json.NewDecoder(resp.Body).Decode(&releases); err != nil {
		return nil
	}

	current := strings.TrimPrefix(currentVersion, "v")
	for _, release := range releases {
		if release.Draft || release.Prerelease {
			continue
		}
		latest := strings.TrimPrefix(release.TagName, "v")
		if latest == "" || latest == current {
			return nil
		}
		return &Result{LatestVersion: latest, URL: release.HTMLURL}
	}
	return nil
}
