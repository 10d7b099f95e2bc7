package app

import (
	"github.com/Rorical/agentic/internal/dashboard"
	"github.com/Rorical/agentic/internal/engine"
	"github.com/Rorical/agentic/internal/registry"
	"github.com/Rorical/agentic/internal/runner"
	"github.com/Rorical/agentic/internal/validate"
	"github.com/Rorical/agentic/ui/components"
)

// newRegistry lists the components self-validation expects to resolve.
func newRegistry() *registry.Registry {
	reg := registry.New()
	reg.Register("engine", "NewOpenAI", engine.NewOpenAI)
	reg.Register("components", "NewPrinter", components.NewPrinter)
	reg.Register("runner", "New", runner.New)
	reg.Register("dashboard", "New", dashboard.New)
	reg.Register("validate", "New", validate.New)
	return reg
}
