package server

import "github.com/actionspec-io/spec-hub/pkg/options"

type Config struct {
	HttpOptions *options.HttpOptions
}
