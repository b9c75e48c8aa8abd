// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 UNICON Campus Hub

// Package client implements the interactive client application runtime.
//
// It wires terminal UI flows, client services, and the background workers
// (connectivity monitor, queue reconciler, shell gateway) into a single
// process lifecycle.
package client
