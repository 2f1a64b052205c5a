package ded

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/neovim/go-client/nvim"
	"go.uber.org/zap"
)

const (
	nvimDoneEvent     = "ded_edit_done"
	nvimProbeInterval = time.Second
)

// NvimEditor opens the listing in a split of a running Neovim and waits
// until the buffer leaves its last window.
type NvimEditor struct {
	addr     string
	fallback Editor
}

func NewNvimEditor(addr string, fallback Editor) *NvimEditor {
	return &NvimEditor{addr: addr, fallback: fallback}
}

func nvimAddress() string {
	if addr := os.Getenv("NVIM"); addr != "" {
		return addr
	}
	return os.Getenv("NVIM_LISTEN_ADDRESS")
}

func (e *NvimEditor) Edit(path string) error {
	v, err := nvim.Dial(e.addr)
	if err != nil {
		L().Debug("cannot reach neovim, using shell editor", zap.String("addr", e.addr), zap.Error(err))
		return e.fallback.Edit(path)
	}
	defer v.Close()

	done := make(chan struct{})
	var once sync.Once
	if err := v.RegisterHandler(nvimDoneEvent, func() {
		once.Do(func() { close(done) })
	}); err != nil {
		return fmt.Errorf("cannot register neovim handler: %w", err)
	}

	b := v.NewBatch()
	b.Command(fmt.Sprintf("execute 'split ' . fnameescape('%s')", vimQuote(path)))
	b.Command("setlocal bufhidden=wipe noswapfile")
	b.Command(fmt.Sprintf("autocmd BufWinLeave <buffer> ++once call rpcnotify(%d, '%s')", v.ChannelID(), nvimDoneEvent))
	if err := b.Execute(); err != nil {
		return fmt.Errorf("cannot open %s in neovim: %w", path, err)
	}
	L().Debug("waiting for neovim buffer", zap.String("path", path), zap.String("addr", e.addr))

	ticker := time.NewTicker(nvimProbeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return nil
		case <-ticker.C:
			var alive int
			if err := v.Eval("1", &alive); err != nil {
				return fmt.Errorf("lost connection to neovim: %w", err)
			}
		}
	}
}

func vimQuote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
