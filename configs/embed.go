// Package configs provides embedded configuration templates for craft.
//
// Templates are embedded at build time so that every distribution carries
// them. `craft config init` writes UserConfigTemplate to the user config
// path. To modify it, edit the .yaml file in this directory and rebuild.
package configs

import _ "embed"

// UserConfigTemplate is the commented template for ~/.config/craft/config.yaml.
//
//go:embed user-config.example.yaml
var UserConfigTemplate string
