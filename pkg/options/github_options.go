package options

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

var _ IOptions = (*GitHubOptions)(nil)

// GitHubOptions contains configuration for the spec repository on GitHub.
type GitHubOptions struct {
	// Token is the access token used for all GitHub API calls.
	Token string `json:"token" mapstructure:"token"`

	// Repo is the spec repository in "owner/name" form.
	Repo string `json:"repo" mapstructure:"repo"`

	// SpecsPath is the directory under which pod spec documents live.
	SpecsPath string `json:"specs-path" mapstructure:"specs-path"`

	// Branch is the ref that is read from and committed to.
	Branch string `json:"branch" mapstructure:"branch"`

	// WorkflowFile is the workflow dispatched after a successful commit.
	WorkflowFile string `json:"workflow-file" mapstructure:"workflow-file"`

	// CacheTTL bounds how long a fetched spec document is served from cache.
	CacheTTL time.Duration `json:"cache-ttl" mapstructure:"cache-ttl"`
}

// NewGitHubOptions creates a GitHubOptions object with default parameters.
func NewGitHubOptions() *GitHubOptions {
	return &GitHubOptions{
		SpecsPath:    "infra",
		Branch:       "main",
		WorkflowFile: "deploy.yml",
		CacheTTL:     5 * time.Minute,
	}
}

// Owner returns the owner half of Repo.
func (o *GitHubOptions) Owner() string {
	owner, _, _ := strings.Cut(o.Repo, "/")
	return owner
}

// Name returns the repository half of Repo.
func (o *GitHubOptions) Name() string {
	_, name, _ := strings.Cut(o.Repo, "/")
	return name
}

// Validate is used to parse and validate the parameters entered by the user at
// the command line when the program starts.
func (o *GitHubOptions) Validate() []error {
	if o == nil {
		return nil
	}

	errors := []error{}

	if o.Token == "" {
		errors = append(errors, fmt.Errorf("github.token must be set"))
	}

	if owner, name, ok := strings.Cut(o.Repo, "/"); !ok || owner == "" || name == "" {
		errors = append(errors, fmt.Errorf("github.repo must be in 'owner/name' form, got %q", o.Repo))
	}

	if o.SpecsPath == "" || strings.HasPrefix(o.SpecsPath, "/") || strings.Contains(o.SpecsPath, "..") {
		errors = append(errors, fmt.Errorf("github.specs-path must be a relative repository path, got %q", o.SpecsPath))
	}

	if o.CacheTTL <= 0 {
		errors = append(errors, fmt.Errorf("github.cache-ttl must be positive, got %s", o.CacheTTL))
	}

	return errors
}

// AddFlags adds flags related to the GitHub spec store to the specified FlagSet.
func (o *GitHubOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Token, "github.token", o.Token, "Access token for the spec repository (repo scope).")
	fs.StringVar(&o.Repo, "github.repo", o.Repo, "Spec repository in 'owner/name' form.")
	fs.StringVar(&o.SpecsPath, "github.specs-path", o.SpecsPath, "Directory under which pod spec documents live.")
	fs.StringVar(&o.Branch, "github.branch", o.Branch, "Branch that spec documents are read from and committed to.")
	fs.StringVar(&o.WorkflowFile, "github.workflow-file", o.WorkflowFile, "Workflow file dispatched after a successful deploy commit.")
	fs.DurationVar(&o.CacheTTL, "github.cache-ttl", o.CacheTTL, "How long fetched spec documents are served from cache.")
}
