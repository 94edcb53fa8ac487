// Command memscan is the CLI front end for the scan engine: a
// -fake-target demo scan, a daemon subcommand exposing the wire
// protocol over a Unix socket, and a version subcommand.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/csvquery/memscan/internal/config"
	"github.com/csvquery/memscan/internal/daemon"
	"github.com/csvquery/memscan/internal/memsrc"
	"github.com/csvquery/memscan/internal/orchestrator"
	"github.com/csvquery/memscan/internal/planner"
	"github.com/csvquery/memscan/internal/telemetry"
)

const (
	Version   = "0.1.0"
	BuildDate = "dev"
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "scan":
		runScan(os.Args[2:])
	case "daemon":
		runDaemon(os.Args[2:])
	case "version":
		fmt.Printf("memscan %s (%s)\n", Version, BuildDate)
	case "help", "-h", "--help":
		printHelp()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", os.Args[1])
		printHelp()
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(`memscan - live process memory scan engine

Usage:
  memscan scan -fake-target -value <n> [-alignment 4]
  memscan daemon -socket /tmp/memscan.sock
  memscan version`)
}

func runScan(args []string) {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	fakeTarget := fs.Bool("fake-target", true, "scan an in-process synthetic target instead of a real pid")
	pid := fs.Int("pid", 0, "process id to scan (ignored when -fake-target)")
	dtypeID := fs.String("type", "u32", "data type id to scan for")
	value := fs.Int64("value", 0, "immediate literal to compare against")
	alignment := fs.Uint64("alignment", 4, "byte alignment between candidate addresses")
	verbose := fs.Bool("verbose", false, "enable debug logging")
	fs.Parse(args)

	logger := telemetry.New(os.Stdout, *verbose)

	var mem memsrc.ProcessMemory
	if *fakeTarget {
		fake := memsrc.NewFakeProcess()
		data := make([]byte, 4096)
		for i := range data {
			data[i] = byte(i)
		}
		// Plant a handful of known hits so the demo always finds something.
		for _, off := range []int{16, 512, 2048} {
			data[off] = byte(*value)
			data[off+1] = byte(*value >> 8)
			data[off+2] = byte(*value >> 16)
			data[off+3] = byte(*value >> 24)
		}
		fake.AddPage(0x10000, data, true, false)
		mem = fake
	} else {
		live, err := memsrc.OpenLiveProcess(*pid)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		mem = live
	}

	cfg := config.DefaultOrchestratorConfig()
	cfg.Verbose = *verbose
	orch := orchestrator.New(mem, cfg, logger)

	ctx := context.Background()
	if err := orch.NewScanSession(ctx, false); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	lit := make([]byte, 4)
	for i := range lit {
		lit[i] = byte(*value >> (8 * i))
	}
	task, err := orch.ElementScan(ctx, *dtypeID, planner.ScanCompareType{Kind: planner.Equal, Immediate: lit}, planner.Alignment(*alignment))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	reporter := telemetry.NewProgressReporter(os.Stdout)
	for {
		select {
		case ratio := <-task.Progress():
			reporter.Report(telemetry.PhaseExecuting, ratio, 0, 0)
		case <-task.Done():
			reporter.Finish()
			if task.Err() != nil {
				fmt.Fprintln(os.Stderr, task.Err())
				os.Exit(1)
			}
			fmt.Printf("scan complete: %d results\n", task.ResultCount())
			return
		}
	}
}

func runDaemon(args []string) {
	fs := flag.NewFlagSet("daemon", flag.ExitOnError)
	socketPath := fs.String("socket", "/tmp/memscan.sock", "unix domain socket path")
	pid := fs.Int("pid", 0, "process id to attach to")
	verbose := fs.Bool("verbose", false, "enable debug logging")
	fs.Parse(args)

	logger := telemetry.New(os.Stdout, *verbose)

	var mem memsrc.ProcessMemory
	if *pid > 0 {
		live, err := memsrc.OpenLiveProcess(*pid)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		mem = live
	} else {
		mem = memsrc.NewFakeProcess()
	}

	orchCfg := config.DefaultOrchestratorConfig()
	orchCfg.Verbose = *verbose
	orch := orchestrator.New(mem, orchCfg, logger)

	daemonCfg := config.DefaultDaemonConfig()
	daemonCfg.SocketPath = *socketPath
	d := daemon.New(daemonCfg, orch, logger)

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-shutdownChan
		logger.Info("shutting down")
		d.Shutdown()
	}()

	if err := d.Start(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
