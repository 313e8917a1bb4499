/*
Copyright 2024 The Reorder Authors.

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
	"flag"
	"os"
	"os/signal"
	"syscall"

	"k8s.io/klog/v2"

	"github.com/inventory-sim/reorder/cmd/reorder/app"
)

func main() {
	klog.InitFlags(nil)
	defer klog.Flush()

	cmd, err := app.NewReorderCommand()
	if err != nil {
		klog.ErrorS(err, "Unable to initialize command")
		klog.FlushAndExit(klog.ExitFlushTimeout, 1)
	}
	cmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		klog.FlushAndExit(klog.ExitFlushTimeout, 1)
	}
}
