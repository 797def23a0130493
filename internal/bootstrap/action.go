// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"fmt"

	"github.com/albatrocity/radio-room-server-sub000/pkg/action"
	actionBuiltin "github.com/albatrocity/radio-room-server-sub000/pkg/action/builtin"
	"github.com/albatrocity/radio-room-server-sub000/pkg/pipeline"
	"github.com/sirupsen/logrus"
)

// InitActionExecutor creates and initializes an action executor with actions from pipeline config.
//
// ============================================================
// DEVELOPER: Register custom action types here.
// ============================================================
// Actions perform the effect of a fired trigger rule. Each
// action handles one rule actionType.
//
// Steps to add a new action:
// 1. Add the ActionType constant in pkg/rule/rule.go
// 2. Create your action in pkg/action/builtin/
// 3. Register the action type in pkg/action/builtin/init.go
// 4. Add action configuration to config/pipeline.yaml
//
// The builtin actions:
// - skipTrack → skips the track the rule resolved to
// - likeTrack → saves the track the rule resolved to
// - sendMessage → posts the rule's message template to chat
//
// When config/pipeline.yaml declares no actions, every builtin
// action is enabled without retries.
// ============================================================
func InitActionExecutor(
	pipelineConfig *pipeline.Config,
	deps *actionBuiltin.Dependencies,
) (*action.Executor, *action.Registry, error) {
	actionBuiltin.RegisterActions(deps)

	actionConfigs := pipelineConfig.Actions
	if len(actionConfigs) == 0 {
		logrus.Info("no actions configured, enabling builtin defaults")
		actionConfigs = actionBuiltin.DefaultConfigs()
	}

	registry := action.NewRegistry()
	if err := action.RegisterActions(registry, actionConfigs); err != nil {
		return nil, nil, fmt.Errorf("failed to register actions: %w", err)
	}

	logrus.Infof("registered actions for types %v", registry.Types())

	executor := action.NewExecutor(registry)
	logrus.Infof("initialized action executor")

	return executor, registry, nil
}
