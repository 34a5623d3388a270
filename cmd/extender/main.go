package main

import (
	"go.uber.org/fx"

	"github.com/nfsched/placement-extender/internal/config"
	"github.com/nfsched/placement-extender/internal/extender"
	"github.com/nfsched/placement-extender/internal/features"
	"github.com/nfsched/placement-extender/internal/inventory"
	"github.com/nfsched/placement-extender/internal/logging"
	"github.com/nfsched/placement-extender/internal/model"
	"github.com/nfsched/placement-extender/internal/scoring"
	"github.com/nfsched/placement-extender/internal/telemetry"
)

var Everything = fx.Options(
	config.Module,
	logging.Module,
	telemetry.Module,
	inventory.Module,
	features.Module,
	model.Module,
	scoring.Module,
	extender.Module,
)

func main() {
	app := fx.New(Everything)
	app.Run()
}
