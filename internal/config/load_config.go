package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"provision-machine/internal/logger"
)

// LoadConfig reads the main config file and the sub-configs it references:
// the app catalog (required), cleanup rules and links (both optional).
// Sub-file paths are resolved relative to the main config file's directory.
// A missing optional sub-file yields an empty section; a missing or
// malformed app catalog is an error, since without it there is nothing to
// provision.
func LoadConfig(configFile string) (Config, error) {
	// mainConfig holds the paths to the referenced config files
	mainConfig := struct {
		Config struct {
			AppsFile          string `yaml:"apps_file"`
			CleanupFile       string `yaml:"cleanup_file"`
			LinksFile         string `yaml:"links_file"`
			VersionControlApp string `yaml:"version_control_app"`
		} `yaml:"config"`
	}{}

	raw, err := os.ReadFile(configFile)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read %s: %w", configFile, err)
	}
	if err := yaml.Unmarshal(raw, &mainConfig); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal %s: %w", configFile, err)
	}

	baseDir := filepath.Dir(configFile)
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(baseDir, p)
	}

	// ----- Load the app catalog -----
	appsFile := resolve(mainConfig.Config.AppsFile)
	if appsFile == "" {
		return Config{}, fmt.Errorf("%s does not set config.apps_file", configFile)
	}
	appsData, err := os.ReadFile(appsFile)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read app catalog %s: %w", appsFile, err)
	}
	var appsWrapper struct {
		Apps []AppDescriptor `yaml:"apps"`
	}
	if err := yaml.Unmarshal(appsData, &appsWrapper); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal app catalog %s: %w", appsFile, err)
	}

	// ----- Load cleanup rules (optional) -----
	var cleanupWrapper struct {
		Cleanup []CleanupRule `yaml:"cleanup"`
	}
	if path := resolve(mainConfig.Config.CleanupFile); path != "" {
		cleanupData, err := os.ReadFile(path)
		if err != nil {
			logger.Debugf("config", "no cleanup rules loaded from %s: %v", path, err)
		} else if err := yaml.Unmarshal(cleanupData, &cleanupWrapper); err != nil {
			return Config{}, fmt.Errorf("failed to unmarshal cleanup rules %s: %w", path, err)
		}
	}

	// ----- Load links (optional) -----
	var linksWrapper struct {
		Links []Link `yaml:"links"`
	}
	if path := resolve(mainConfig.Config.LinksFile); path != "" {
		linksData, err := os.ReadFile(path)
		if err != nil {
			logger.Debugf("config", "no links loaded from %s: %v", path, err)
		} else if err := yaml.Unmarshal(linksData, &linksWrapper); err != nil {
			return Config{}, fmt.Errorf("failed to unmarshal links %s: %w", path, err)
		}
	}

	vcApp := mainConfig.Config.VersionControlApp
	if vcApp == "" {
		vcApp = "Git"
	}

	cfg := Config{
		Apps:              appsWrapper.Apps,
		Cleanup:           cleanupWrapper.Cleanup,
		Links:             linksWrapper.Links,
		VersionControlApp: vcApp,
	}
	if err := Validate(cfg.Apps); err != nil {
		return Config{}, err
	}
	logger.Debugf("config", "loaded %d apps, %d cleanup rules, %d links", len(cfg.Apps), len(cfg.Cleanup), len(cfg.Links))
	return cfg, nil
}

// Validate checks every descriptor for the fields its install method
// requires. The catalog is versioned configuration, so a malformed entry
// is an operator error surfaced before the run starts rather than a
// per-item failure during it.
func Validate(apps []AppDescriptor) error {
	for i, d := range apps {
		if d.Name == "" {
			return fmt.Errorf("app %d: missing name", i)
		}
		switch d.InstallMethod {
		case MethodScoop, MethodWinget:
			if d.PackageRef == "" {
				return fmt.Errorf("app %s: install_method %s requires package_ref", d.Name, d.InstallMethod)
			}
			if d.DownloadURL != "" {
				return fmt.Errorf("app %s: download_url is meaningless with install_method %s", d.Name, d.InstallMethod)
			}
		case MethodDownload:
			if d.DownloadURL == "" {
				return fmt.Errorf("app %s: install_method download requires download_url", d.Name)
			}
			if d.PackageRef != "" {
				return fmt.Errorf("app %s: package_ref is meaningless with install_method download", d.Name)
			}
		case MethodCustom:
			if d.Command == "" {
				return fmt.Errorf("app %s: install_method custom requires command", d.Name)
			}
		default:
			return fmt.Errorf("app %s: unknown install_method %q", d.Name, d.InstallMethod)
		}
		if d.Timeout != "" {
			if _, err := time.ParseDuration(d.Timeout); err != nil {
				return fmt.Errorf("app %s: invalid timeout %q: %v", d.Name, d.Timeout, err)
			}
		}
	}
	return nil
}
