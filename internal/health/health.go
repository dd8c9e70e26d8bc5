package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"passkey-wallet-gateway/internal/logger"
)

type NodeStatus struct {
	Name     string `json:"name"`
	LastSlot uint64 `json:"last_slot"`
}

var (
	isReady      int32
	nodeStatuses = make(map[string]*NodeStatus)
	statusMutex  sync.RWMutex
)

func SetReady(ready bool) {
	if ready {
		atomic.StoreInt32(&isReady, 1)
	} else {
		atomic.StoreInt32(&isReady, 0)
	}
}

func LivenessHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func ReadinessHandler(w http.ResponseWriter, _ *http.Request) {
	statusMutex.RLock()
	defer statusMutex.RUnlock()

	if len(nodeStatuses) == 0 || atomic.LoadInt32(&isReady) == 0 {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("Not Ready"))

		return
	}

	response := make(map[string]interface{})
	response["status"] = "Ready"
	response["nodes"] = nodeStatuses

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(response)
}

// RegisterSlotWatcher keeps the readiness payload current with the RPC
// node's slot head.
func RegisterSlotWatcher(ctx context.Context, name string, head func(ctx context.Context) (uint64, error)) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			default:
				slot, err := head(ctx)
				if err != nil {
					logger.GetLogger().Error().
						Err(err).
						Str("node", name).
						Msg("Error getting latest slot")
				} else {
					updateNodeStatus(name, slot)
				}
				time.Sleep(10 * time.Second)
			}
		}
	}()
}

func updateNodeStatus(name string, lastSlot uint64) {
	statusMutex.Lock()
	defer statusMutex.Unlock()
	nodeStatuses[name] = &NodeStatus{
		Name:     name,
		LastSlot: lastSlot,
	}
}
