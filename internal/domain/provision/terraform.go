package provision

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"runtime"

	"golang.org/x/mod/semver"

	"github.com/Git-Cosmo/CloudOps/internal/domain/config"
	"github.com/Git-Cosmo/CloudOps/internal/ports"
)

var (
	runtimeGOOS   = runtime.GOOS
	runtimeGOARCH = runtime.GOARCH
)

const (
	terraformReleasesURL = "https://releases.hashicorp.com/terraform"
	latestReleaseAPI     = "https://api.github.com/repos/hashicorp/terraform/releases/latest"

	// fallbackTerraformVersion is used when the release API is unreachable.
	fallbackTerraformVersion = "1.6.6"
)

// EnsureTerraform installs terraform when it is absent or does not satisfy
// the requested version. "latest" is satisfied by any existing install.
func (p *Provisioner) EnsureTerraform(ctx context.Context, version string) error {
	installed := p.installedVersion(ctx, "terraform", "version")
	if installed != "" {
		p.logger.Info(ctx, "terraform already installed", ports.F("version", installed))
		if version == "latest" || semver.Compare("v"+installed, "v"+version) == 0 {
			return nil
		}
	}

	if version == "latest" {
		version = p.latestTerraformVersion(ctx)
	}
	if !semver.IsValid("v" + version) {
		return config.NewUserError(config.ErrCodeConfigInvalid,
			fmt.Sprintf("invalid terraform version: %q", version)).
			WithContext("tf_version")
	}

	p.logger.Info(ctx, "installing terraform", ports.F("version", version))

	arch := p.goarch
	if arch != "arm64" {
		arch = "amd64"
	}
	url := fmt.Sprintf("%s/%s/terraform_%s_%s_%s.zip",
		terraformReleasesURL, version, version, p.goos, arch)

	archive, err := p.download(ctx, url)
	if err != nil {
		return config.NewUserError(config.ErrCodeInstallFailed, "failed to download terraform").
			WithContext(url).
			WithUnderlying(err)
	}

	dir, err := p.installDir()
	if err != nil {
		return err
	}
	if err := p.fs.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := p.unzip(archive, dir); err != nil {
		return config.NewUserError(config.ErrCodeInstallFailed, "failed to unpack terraform").
			WithUnderlying(err)
	}
	if err := p.fs.Chmod(filepath.Join(dir, "terraform"), 0o755); err != nil {
		return err
	}

	p.sink.AddPath(ctx, dir)

	p.logger.Info(ctx, "terraform installed", ports.F("version", version), ports.F("dir", dir))
	return nil
}

// latestTerraformVersion asks the GitHub releases API for the newest tag,
// falling back to a known-good version when the API is unreachable.
func (p *Provisioner) latestTerraformVersion(ctx context.Context) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, latestReleaseAPI, nil)
	if err != nil {
		return fallbackTerraformVersion
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Warn(ctx, "failed to fetch latest terraform version, using fallback",
			ports.F("fallback", fallbackTerraformVersion), ports.F("error", err))
		return fallbackTerraformVersion
	}
	defer func() { _ = resp.Body.Close() }()

	var release struct {
		TagName string `json:"tag_name"`
	}
	if resp.StatusCode != http.StatusOK || json.NewDecoder(resp.Body).Decode(&release) != nil || release.TagName == "" {
		p.logger.Warn(ctx, "unexpected release API response, using fallback",
			ports.F("fallback", fallbackTerraformVersion))
		return fallbackTerraformVersion
	}

	version := release.TagName
	if version[0] == 'v' {
		version = version[1:]
	}
	p.logger.Info(ctx, "latest terraform version", ports.F("version", version))
	return version
}

func (p *Provisioner) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	return io.ReadAll(resp.Body)
}

// unzip extracts an in-memory zip archive into dir. Archives here are
// single-binary tool releases, so no path traversal defense beyond
// rejecting entries that escape dir.
func (p *Provisioner) unzip(archive []byte, dir string) error {
	reader, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return err
	}

	for _, file := range reader.File {
		target := filepath.Join(dir, file.Name)
		if !filepath.IsLocal(file.Name) {
			return fmt.Errorf("archive entry escapes target dir: %s", file.Name)
		}

		if file.FileInfo().IsDir() {
			if err := p.fs.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}

		if err := p.fs.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}

		rc, err := file.Open()
		if err != nil {
			return err
		}
		data, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return err
		}

		if err := p.fs.WriteFile(target, data, file.Mode()); err != nil {
			return err
		}
	}

	return nil
}
