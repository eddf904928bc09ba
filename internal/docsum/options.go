// Package docsum provides the document summarization service application.
package docsum

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/kart-io/docsum/pkg/component/mongodb"
	httpopts "github.com/kart-io/docsum/pkg/options/http"
	llmopts "github.com/kart-io/docsum/pkg/options/llm"
	logopts "github.com/kart-io/docsum/pkg/options/logger"
	ocropts "github.com/kart-io/docsum/pkg/options/ocr"
	pipelineopts "github.com/kart-io/docsum/pkg/options/pipeline"
)

// Options contains all docsum service options.
type Options struct {
	// HTTP contains HTTP server configuration.
	HTTP *httpopts.Options `json:"http" mapstructure:"http"`

	// Log contains logger configuration.
	Log *logopts.Options `json:"log" mapstructure:"log"`

	// MongoDB contains MongoDB configuration.
	MongoDB *mongodb.Options `json:"mongodb" mapstructure:"mongodb"`

	// OCR contains text extraction service configuration.
	OCR *ocropts.Options `json:"ocr" mapstructure:"ocr"`

	// LLM contains model provider configuration.
	LLM *llmopts.Options `json:"llm" mapstructure:"llm"`

	// Pipeline contains chunking and summarization bounds.
	Pipeline *pipelineopts.Options `json:"pipeline" mapstructure:"pipeline"`
}

// NewOptions creates Options with defaults.
func NewOptions() *Options {
	mongoOpts := mongodb.NewOptions()
	mongoOpts.Database = "up_db"

	return &Options{
		HTTP:     httpopts.NewOptions(),
		Log:      logopts.NewOptions(),
		MongoDB:  mongoOpts,
		OCR:      ocropts.NewOptions(),
		LLM:      llmopts.NewOptions(),
		Pipeline: pipelineopts.NewOptions(),
	}
}

// AddFlags adds all docsum flags to the given FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	o.HTTP.AddFlags(fs)
	o.Log.AddFlags(fs)
	o.MongoDB.AddFlags(fs, "mongodb.")
	o.OCR.AddFlags(fs)
	o.LLM.AddFlags(fs)
	o.Pipeline.AddFlags(fs)
}

// Complete fills in defaults and reads secrets from the environment.
func (o *Options) Complete() error {
	if err := o.HTTP.Complete(); err != nil {
		return err
	}
	if err := o.MongoDB.Complete(); err != nil {
		return err
	}
	if err := o.OCR.Complete(); err != nil {
		return err
	}
	if err := o.LLM.Complete(); err != nil {
		return err
	}
	return o.Pipeline.Complete()
}

// Validate validates all option sections.
func (o *Options) Validate() error {
	if err := o.HTTP.Validate(); err != nil {
		return fmt.Errorf("http options: %w", err)
	}
	if err := o.MongoDB.Validate(); err != nil {
		return fmt.Errorf("mongodb options: %w", err)
	}
	if err := o.OCR.Validate(); err != nil {
		return fmt.Errorf("ocr options: %w", err)
	}
	if err := o.LLM.Validate(); err != nil {
		return fmt.Errorf("llm options: %w", err)
	}
	if err := o.Pipeline.Validate(); err != nil {
		return fmt.Errorf("pipeline options: %w", err)
	}
	return nil
}
