package daemon

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/csvquery/memscan/internal/config"
	"github.com/csvquery/memscan/internal/memsrc"
	"github.com/csvquery/memscan/internal/orchestrator"
)

func startTestDaemon(t *testing.T) (*Daemon, string) {
	t.Helper()
	proc := memsrc.NewFakeProcess()
	proc.AddPage(0x2000, []byte{5, 0, 0, 0, 9, 0, 0, 0}, true, false)
	orch := orchestrator.New(proc, config.DefaultOrchestratorConfig(), nil)

	sockPath := filepath.Join(t.TempDir(), "memscan.sock")
	cfg := config.DefaultDaemonConfig()
	cfg.SocketPath = sockPath
	d := New(cfg, orch, nil)

	go d.Start()
	t.Cleanup(d.Shutdown)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(sockPath); err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	return d, sockPath
}

func sendRequest(t *testing.T, sockPath string, req interface{}) map[string]interface{} {
	t.Helper()
	conn, err := net.Dial("unix", sockPath)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	data, _ := json.Marshal(req)
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		t.Fatalf("write: %v", err)
	}
	reader := bufio.NewReader(conn)
	line, err := reader.ReadBytes('\n')
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(line, &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return resp
}

func TestDaemonPing(t *testing.T) {
	_, sockPath := startTestDaemon(t)
	resp := sendRequest(t, sockPath, map[string]string{"action": "ping"})
	if resp["ok"] != true {
		t.Fatalf("expected ok response, got %v", resp)
	}
}

func TestDaemonScanNewAndElementScan(t *testing.T) {
	_, sockPath := startTestDaemon(t)

	resp := sendRequest(t, sockPath, map[string]interface{}{"action": "scan_new"})
	if resp["ok"] != true {
		t.Fatalf("scan_new failed: %v", resp)
	}

	resp = sendRequest(t, sockPath, map[string]interface{}{
		"action":    "element_scan",
		"data_type": "u32",
		"compare":   "eq",
		"value":     5,
		"alignment": 4,
	})
	if resp["ok"] != true {
		t.Fatalf("element_scan failed: %v", resp)
	}
}

func TestDaemonUnknownAction(t *testing.T) {
	_, sockPath := startTestDaemon(t)
	resp := sendRequest(t, sockPath, map[string]string{"action": "bogus"})
	if resp["ok"] == true {
		t.Fatal("expected error for unknown action")
	}
	fmt.Sprintf("%v", resp["error"])
}
