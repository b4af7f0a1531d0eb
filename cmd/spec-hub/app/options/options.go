package options

import (
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	cliflag "k8s.io/component-base/cli/flag"

	"github.com/actionspec-io/spec-hub/internal/spechub"
	"github.com/actionspec-io/spec-hub/pkg/app"
	"github.com/actionspec-io/spec-hub/pkg/log"
	"github.com/actionspec-io/spec-hub/pkg/options"
)

type SpecHubOptions struct {
	HttpOptions   *options.HttpOptions   `json:"http" mapstructure:"http"`
	GitHubOptions *options.GitHubOptions `json:"github" mapstructure:"github"`
	S3Options     *options.S3Options     `json:"s3" mapstructure:"s3"`
	Log           *log.Options
}

var _ app.NamedFlagSetOptions = (*SpecHubOptions)(nil)

func NewSpecHubOptions() *SpecHubOptions {
	o := &SpecHubOptions{
		HttpOptions:   options.NewHttpOptions(),
		GitHubOptions: options.NewGitHubOptions(),
		S3Options:     options.NewS3Options(),
		Log:           log.NewOptions(),
	}

	return o
}

func (o *SpecHubOptions) Flags() cliflag.NamedFlagSets {
	fss := cliflag.NamedFlagSets{}
	o.HttpOptions.AddFlags(fss.FlagSet("http"))
	o.GitHubOptions.AddFlags(fss.FlagSet("github"))
	o.S3Options.AddFlags(fss.FlagSet("s3"))
	o.Log.AddFlags(fss.FlagSet("log"))
	return fss
}

func (o *SpecHubOptions) Complete() error {
	log.Init(o.Log)
	return nil
}

func (o *SpecHubOptions) Validate() error {
	errs := []error{}
	errs = append(errs, o.HttpOptions.Validate()...)
	errs = append(errs, o.GitHubOptions.Validate()...)
	errs = append(errs, o.S3Options.Validate()...)
	errs = append(errs, o.Log.Validate()...)
	return utilerrors.NewAggregate(errs)
}

func (o *SpecHubOptions) Config() (*spechub.Config, error) {
	return &spechub.Config{
		HttpOptions:   o.HttpOptions,
		GitHubOptions: o.GitHubOptions,
		S3Options:     o.S3Options,
	}, nil
}
