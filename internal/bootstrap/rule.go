// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"github.com/albatrocity/radio-room-server-sub000/pkg/rule"
	"github.com/sirupsen/logrus"
)

// InitRuleEngine creates the trigger rule engine and the per-room rule
// registry it evaluates from.
//
// ============================================================
// DEVELOPER: Firing history
// ============================================================
// The ledger decides how long firings are remembered and who
// shares them. Use the Redis ledger when more than one instance
// serves the same rooms (see pkg/history).
//
// validateTemplate rejects sendMessage rules whose template
// the action's renderer cannot parse, so they are reported when
// the rule set is loaded instead of failing at dispatch.
//
// Room rule sets are not loaded here. They are seeded from
// config/pipeline.yaml by SeedRuleSets and otherwise loaded
// from the rule set store on first use.
// ============================================================
func InitRuleEngine(ledger rule.Ledger, validateTemplate rule.TemplateValidator) (*rule.Engine, *rule.Registry) {
	registry := rule.NewRegistry()
	registry.SetTemplateValidator(validateTemplate)

	engine := rule.NewEngine(ledger)
	logrus.Infof("initialized rule engine with %T", ledger)

	return engine, registry
}
