/*
   Copyright 2021 Erigon contributors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"
)

// RootContext returns a context that is canceled when the process receives
// SIGINT or SIGTERM, so a long-running command (none of txtool's today, but
// the next one might be) has a clean way to unwind.
func RootContext(log *zap.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		defer cancel()

		ch := make(chan os.Signal, 1)
		defer close(ch)

		signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(ch)

		select {
		case sig := <-ch:
			log.Info("got interrupt, shutting down", zap.String("signal", sig.String()))
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

// CliString2Array splits a comma-separated flag value into its trimmed,
// non-empty elements. Used by --access-list, which takes a bare list of
// addresses (no storage keys) as "addr1,addr2,...".
func CliString2Array(input string) []string {
	l := strings.Split(input, ",")
	res := make([]string, 0, len(l))
	for _, r := range l {
		if r = strings.TrimSpace(r); r != "" {
			res = append(res, r)
		}
	}
	return res
}
