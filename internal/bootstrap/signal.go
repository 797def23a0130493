// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"github.com/albatrocity/radio-room-server-sub000/pkg/signal"
	"github.com/sirupsen/logrus"
)

// InitSignalProcessor creates the signal processor that validates raw room
// events.
//
// ============================================================
// DEVELOPER: Event normalization
// ============================================================
// The processor turns reaction and chat message payloads sent
// by the room host into signals. To support a new event kind:
// 1. Add the Kind and its Signal type in pkg/signal/signal.go
// 2. Add a Process*Event method in pkg/signal/processor.go
// 3. Add the matching Process*Event method on pipeline.Manager
// ============================================================
func InitSignalProcessor() *signal.Processor {
	processor := signal.NewProcessor()
	logrus.Infof("initialized signal processor for %s and %s events", signal.KindReaction, signal.KindMessage)
	return processor
}
