// Package daemon exposes an Orchestrator over a Unix domain socket:
// stale-socket cleanup, a semaphore-bounded accept loop with a
// periodic deadline so shutdown requests are noticed promptly, and
// graceful shutdown via a closed channel plus sync.WaitGroup.
package daemon

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/csvquery/memscan/internal/catalog"
	"github.com/csvquery/memscan/internal/config"
	"github.com/csvquery/memscan/internal/orchestrator"
	"github.com/csvquery/memscan/internal/planner"
	"github.com/csvquery/memscan/internal/telemetry"
	"github.com/csvquery/memscan/internal/wire"
)

// Daemon serves wire protocol commands against a single Orchestrator.
type Daemon struct {
	cfg    config.DaemonConfig
	orch   *orchestrator.Orchestrator
	logger *telemetry.Logger

	listener net.Listener
	sem      chan struct{}
	wg       sync.WaitGroup
	shutdown chan struct{}
}

func New(cfg config.DaemonConfig, orch *orchestrator.Orchestrator, logger *telemetry.Logger) *Daemon {
	return &Daemon{
		cfg:      cfg,
		orch:     orch,
		logger:   logger,
		sem:      make(chan struct{}, cfg.MaxConnections),
		shutdown: make(chan struct{}),
	}
}

// Start removes any stale socket file, listens, and serves connections
// until Shutdown is called.
func (d *Daemon) Start() error {
	if _, err := os.Stat(d.cfg.SocketPath); err == nil {
		os.Remove(d.cfg.SocketPath)
	}
	listener, err := net.Listen("unix", d.cfg.SocketPath)
	if err != nil {
		return fmt.Errorf("daemon: listening on %s: %w", d.cfg.SocketPath, err)
	}
	d.listener = listener
	d.logger.Info("daemon listening on %s", d.cfg.SocketPath)

	for {
		select {
		case <-d.shutdown:
			return nil
		default:
		}
		if unixListener, ok := listener.(*net.UnixListener); ok {
			unixListener.SetDeadline(time.Now().Add(500 * time.Millisecond))
		}
		conn, err := listener.Accept()
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			select {
			case <-d.shutdown:
				return nil
			default:
				d.logger.Warn("accept error: %v", err)
				continue
			}
		}
		d.wg.Add(1)
		go d.handleConnection(conn)
	}
}

// Shutdown stops accepting connections, waits for in-flight ones to
// finish, and removes the socket file.
func (d *Daemon) Shutdown() {
	close(d.shutdown)
	if d.listener != nil {
		d.listener.Close()
	}
	d.wg.Wait()
	os.Remove(d.cfg.SocketPath)
}

func (d *Daemon) handleConnection(conn net.Conn) {
	defer d.wg.Done()
	defer conn.Close()

	d.sem <- struct{}{}
	defer func() { <-d.sem }()

	reader := bufio.NewReader(conn)
	for {
		if d.cfg.IdleTimeoutSec > 0 {
			conn.SetReadDeadline(time.Now().Add(time.Duration(d.cfg.IdleTimeoutSec) * time.Second))
		}
		line, err := reader.ReadBytes('\n')
		if err != nil {
			return
		}
		resp := d.processRequest(line)
		encoded, err := json.Marshal(resp)
		if err != nil {
			continue
		}
		encoded = append(encoded, '\n')
		if _, err := conn.Write(encoded); err != nil {
			return
		}
	}
}

func (d *Daemon) processRequest(line []byte) interface{} {
	var env wire.Envelope
	if err := json.Unmarshal(line, &env); err != nil {
		return errorResponse(fmt.Errorf("daemon: invalid request: %w", err))
	}

	ctx := context.Background()
	switch env.Action {
	case "ping":
		return successResponse(map[string]string{"status": "pong"})
	case "scan_new":
		var req wire.ScanNew
		json.Unmarshal(line, &req)
		if err := d.orch.NewScanSession(ctx, req.WritableOnly); err != nil {
			return errorResponse(err)
		}
		return successResponse(map[string]string{"status": "ok"})
	case "element_scan":
		var req wire.ElementScan
		json.Unmarshal(line, &req)
		compare, alignment, err := decodeElementScan(req)
		if err != nil {
			return errorResponse(err)
		}
		task, err := d.orch.ElementScan(ctx, req.DataType, compare, alignment)
		if err != nil {
			return errorResponse(err)
		}
		<-task.Done()
		if task.Err() != nil {
			return errorResponse(task.Err())
		}
		return successResponse(wire.TaskCompleted{
			Event:       "task_completed",
			TaskID:      task.ID(),
			ResultCount: task.ResultCount(),
		})
	case "scan_results_list":
		var req wire.ScanResultsList
		json.Unmarshal(line, &req)
		views := d.orch.Snapshot().GetScanResultsPage(req.DataType, req.PageIndex, req.PageSize)
		entries := make([]wire.ResultEntry, 0, len(views))
		for _, v := range views {
			entries = append(entries, wire.ResultEntry{Address: v.Address})
		}
		return successResponse(wire.ResultsUpdated{Event: "results_updated", Results: entries})
	default:
		return errorResponse(fmt.Errorf("daemon: unknown action %q", env.Action))
	}
}

func decodeElementScan(req wire.ElementScan) (planner.ScanCompareType, planner.Alignment, error) {
	kind, err := compareKindFromString(req.Compare)
	if err != nil {
		return planner.ScanCompareType{}, 0, err
	}
	alignment := planner.Alignment(req.Alignment)
	if alignment == 0 {
		alignment = 1
	}
	var lit []byte
	if kind.IsDelta() {
		lit = encodeValue(req.Delta, req.DataType)
	} else {
		lit = encodeValue(req.Value, req.DataType)
	}
	return planner.ScanCompareType{Kind: kind, Immediate: lit}, alignment, nil
}

func compareKindFromString(s string) (planner.CompareKind, error) {
	switch s {
	case "eq":
		return planner.Equal, nil
	case "neq":
		return planner.NotEqual, nil
	case "gt":
		return planner.GreaterThan, nil
	case "lt":
		return planner.LessThan, nil
	case "gte":
		return planner.GreaterThanOrEqual, nil
	case "lte":
		return planner.LessThanOrEqual, nil
	case "changed":
		return planner.Changed, nil
	case "unchanged":
		return planner.Unchanged, nil
	case "increased":
		return planner.Increased, nil
	case "decreased":
		return planner.Decreased, nil
	case "increased_by":
		return planner.IncreasedByDelta, nil
	case "decreased_by":
		return planner.DecreasedByDelta, nil
	case "multiplied_by":
		return planner.MultipliedByDelta, nil
	case "divided_by":
		return planner.DividedByDelta, nil
	case "modulo_by":
		return planner.ModuloByDelta, nil
	case "shifted_left_by":
		return planner.ShiftedLeftByDelta, nil
	case "shifted_right_by":
		return planner.ShiftedRightByDelta, nil
	case "anded_with":
		return planner.AndedWithDelta, nil
	case "ored_with":
		return planner.OredWithDelta, nil
	case "xored_with":
		return planner.XoredWithDelta, nil
	default:
		return 0, fmt.Errorf("daemon: unknown compare operator %q", s)
	}
}

// encodeValue converts a decoded JSON number into the data type's
// little/big-endian byte image. Only numeric literals are supported;
// any other JSON value, a string included, yields a nil literal.
func encodeValue(v interface{}, dtypeID string) []byte {
	dt := catalog.Lookup(dtypeID)
	if dt == nil || v == nil {
		return nil
	}
	f, ok := v.(float64)
	if !ok {
		return nil
	}
	buf := make([]byte, dt.UnitSize)
	asU64 := uint64(int64(f))
	for i := uint64(0); i < dt.UnitSize; i++ {
		shift := 8 * i
		if dt.Endian == catalog.BigEndian {
			shift = 8 * (dt.UnitSize - 1 - i)
		}
		buf[i] = byte(asU64 >> shift)
	}
	return buf
}

func successResponse(data interface{}) map[string]interface{} {
	return map[string]interface{}{"ok": true, "data": data}
}

func errorResponse(err error) map[string]interface{} {
	return map[string]interface{}{"ok": false, "error": err.Error()}
}
