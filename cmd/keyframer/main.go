/*
Command keyframer serves a live preview of an animated HTML document.

Usage:

    keyframer [-config file] [-listen addr] [-trace level] index.html [style.css ...]

Open the listen address in a browser. The page shows the preview in an
iframe and sends editing commands over a websocket (path /ws). The
synthesized CSS is available at /css, the property catalog of the
properties panel at /properties.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/npillmayer/keyframer"
	"github.com/npillmayer/keyframer/animation"
	"github.com/npillmayer/keyframer/config"
	"github.com/npillmayer/keyframer/document"
	"github.com/npillmayer/keyframer/preview/livepreview"
	"github.com/npillmayer/keyframer/style"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/sync/errgroup"
)

// tracer traces with key 'keyframer.cmd'.
func tracer() tracing.Trace {
	return tracing.Select("keyframer.cmd")
}

var traceKeys = []string{
	"keyframer", "keyframer.cmd", "keyframer.config", "keyframer.cssom",
	"keyframer.document", "keyframer.live", "keyframer.preview",
	"keyframer.store", "keyframer.synth", "keyframer.timeline",
}

func main() {
	configPtr := flag.String("config", "keyframer.yaml", "settings file (YAML)")
	listenPtr := flag.String("listen", "", "listen address, overrides the settings file")
	tracePtr := flag.String("trace", "", "trace level: Debug, Info or Error")
	flag.Parse()

	if err := run(*configPtr, *listenPtr, *tracePtr, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "keyframer: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, listen, trace string, paths []string) error {
	settings, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if listen != "" {
		settings.Listen = listen
	}
	if trace != "" {
		overlay, err := config.Parse([]byte("trace_level: " + trace))
		if err != nil {
			return err
		}
		settings.TraceLevel = overlay.TraceLevel
	}
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(settings.TraceLevel)
	}
	if len(paths) == 0 {
		return errors.New("no input files")
	}
	files, err := document.ReadFiles(paths...)
	if err != nil {
		return err
	}

	editor, hub := connect(settings)
	if err := editor.Load(files); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	server := &http.Server{Addr: settings.Listen, Handler: routes(editor, hub)}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return editor.Run(ctx)
	})
	g.Go(func() error {
		tracer().Infof("serving live preview on %s", settings.Listen)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("live preview server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		hub.Close()
		editor.Close()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdown)
	})
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// connect creates an editor previewing to a websocket hub. Commands of the
// hub's clients are applied to the editor, and every client attaching gets
// a fresh frame.
func connect(settings config.Settings, opts ...animation.Option) (*keyframer.Editor, *livepreview.Hub) {
	var editor *keyframer.Editor
	hub := livepreview.NewHub(livepreview.ApplierFunc(func(cmd keyframer.Command) error {
		return editor.Apply(cmd)
	}))
	editor = keyframer.New(settings, hub, opts...)
	hub.OnAttach(func() {
		editor.Resend()
	})
	return editor, hub
}

func routes(editor *keyframer.Editor, hub *livepreview.Hub) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	mux.HandleFunc("/css", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
		io.WriteString(w, editor.CSS())
	})
	mux.HandleFunc("/properties", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(style.EditorGroups()); err != nil {
			tracer().Errorf("cannot encode property groups: %v", err)
		}
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, indexPage)
	})
	return mux
}
