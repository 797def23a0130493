// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"context"
	"fmt"

	"github.com/albatrocity/radio-room-server-sub000/pkg/action"
	"github.com/albatrocity/radio-room-server-sub000/pkg/pipeline"
	"github.com/albatrocity/radio-room-server-sub000/pkg/rule"
	"github.com/albatrocity/radio-room-server-sub000/pkg/service"
	"github.com/albatrocity/radio-room-server-sub000/pkg/signal"
	"github.com/sirupsen/logrus"
)

// InitPipeline creates the pipeline manager.
//
// ============================================================
// DEVELOPER: Pipeline flow
// ============================================================
// The pipeline orchestrates the flow:
// Room event → Signal → Trigger rules → Firing history → Actions
//
// Rules name their action through actionType, so there is no
// separate rule-to-action mapping to configure.
// ============================================================
func InitPipeline(
	processor *signal.Processor,
	ruleEngine *rule.Engine,
	ruleRegistry *rule.Registry,
	store service.RuleSetStore,
	actionExecutor *action.Executor,
) *pipeline.Manager {
	manager := pipeline.NewManager(processor, ruleEngine, ruleRegistry, store, actionExecutor)
	logrus.Infof("initialized pipeline manager")

	return manager
}

// SeedRuleSets installs the rooms configured in config/pipeline.yaml.
// Rooms that already have a stored rule set keep it.
func SeedRuleSets(ctx context.Context, manager *pipeline.Manager, pipelineConfig *pipeline.Config) error {
	for _, rc := range pipelineConfig.Rooms {
		compiled, invalid, err := manager.SeedRuleSet(ctx, rc.ID, rc.Rules)
		if err != nil {
			return fmt.Errorf("failed to seed rules for room %s: %w", rc.ID, err)
		}
		if len(invalid) > 0 {
			logrus.Warnf("room %s: %d configured rules are invalid and were skipped", rc.ID, len(invalid))
		}
		logrus.Infof("room %s: %d trigger rules active", rc.ID, compiled.Len())
	}

	return nil
}
