// SPDX-FileCopyrightText: 2026 VoxVault contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package translation

import "context"

// Disabled is the identity backend used when translation is turned off.
type Disabled struct{}

func NewDisabled() Disabled { return Disabled{} }

func (Disabled) Translate(_ context.Context, text, _, _ string) (string, error) {
	return text, nil
}

func (Disabled) GenerateText(context.Context, string, int) (string, error) {
	return "", ErrGenerateUnsupported
}

func (Disabled) ResetSessions(string) {}

func (Disabled) Available() bool { return false }
