package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/1broseidon/stackwm/internal/config"
	"github.com/1broseidon/stackwm/internal/display"
	"github.com/1broseidon/stackwm/internal/engine"
	"github.com/1broseidon/stackwm/internal/geometry"
	"github.com/1broseidon/stackwm/internal/ipc"
	"github.com/1broseidon/stackwm/internal/lifecycle"
	"github.com/1broseidon/stackwm/internal/stack"
	"github.com/1broseidon/stackwm/internal/tui"
	"github.com/1broseidon/stackwm/internal/x11"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		if len(os.Args) > 2 && (os.Args[2] == "help" || os.Args[2] == "-h" || os.Args[2] == "--help") {
			fmt.Fprintln(os.Stdout, "Usage: stackwm daemon")
			os.Exit(0)
		}
		if len(os.Args) > 2 {
			fmt.Fprintln(os.Stderr, "daemon takes no arguments")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Usage: stackwm daemon")
			os.Exit(2)
		}
		runDaemon()
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "stacks":
		os.Exit(runStacks(os.Args[2:]))
	case "dump":
		os.Exit(runDump(os.Args[2:]))
	case "create":
		os.Exit(runCreate(os.Args[2:]))
	case "remove":
		os.Exit(runRemove(os.Args[2:]))
	case "resize":
		os.Exit(runResize(os.Args[2:]))
	case "rotate":
		os.Exit(runRotate(os.Args[2:]))
	case "minimize":
		os.Exit(runMinimize(os.Args[2:]))
	case "user":
		os.Exit(runUser(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: stackwm <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the stackwm layout daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "  stacks              List stacks and their bounds")
	fmt.Fprintln(w, "  dump <id>           Dump one stack's full state")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  create <id>         Create and attach a stack")
	fmt.Fprintln(w, "  remove <id>         Detach and remove a stack")
	fmt.Fprintln(w, "  resize <id> [edges] Resize a stack (no edges = fullscreen)")
	fmt.Fprintln(w, "  rotate <0-3>        Rotate the display in quarter turns")
	fmt.Fprintln(w, "  minimize <amount>   Set docked-stack minimize progress (0-1)")
	fmt.Fprintln(w, "  user <id>           Switch the current user")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  tui                 Open the live stack monitor")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'stackwm <command> --help' for command-specific options.")
}

func newClient() (*ipc.Client, int) {
	client, err := ipc.NewClient()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return nil, 1
	}
	return client, 0
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: stackwm status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	client, code := newClient()
	if code != 0 {
		return code
	}
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("daemon_running:  %v\n", status.DaemonRunning)
	fmt.Printf("display:         %dx%d (rotation %d)\n", status.DisplayWidth, status.DisplayHeight, status.Rotation)
	fmt.Printf("stack_count:     %d\n", status.StackCount)
	fmt.Printf("docked_present:  %v\n", status.DockedPresent)
	if status.DockedPresent {
		fmt.Printf("minimize_amount: %.2f\n", status.MinimizeAmount)
	}
	fmt.Printf("ime_visible:     %v\n", status.ImeVisible)
	fmt.Printf("current_user:    %d\n", status.CurrentUser)
	fmt.Printf("uptime_seconds:  %d\n", status.UptimeSeconds)
	return 0
}

func runStacks(args []string) int {
	fs := flag.NewFlagSet("stacks", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: stackwm stacks")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List stacks with their effective and raw bounds.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "stacks takes no arguments")
		fs.Usage()
		return 2
	}

	client, code := newClient()
	if code != 0 {
		return code
	}
	stacks, err := client.GetStacks()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if len(stacks) == 0 {
		fmt.Println("no stacks")
		return 0
	}
	for _, s := range stacks {
		line := fmt.Sprintf("%d: bounds=%s tasks=%d side=%s", s.ID, s.Bounds.Rect(), s.TaskCount, s.DockSide)
		if s.Fullscreen {
			line += " fullscreen"
		}
		if adjusted := s.AdjustedBounds.Rect(); !adjusted.IsEmpty() {
			line += fmt.Sprintf(" adjusted=%s", adjusted)
		}
		if s.DragResizing {
			line += " drag-resizing"
		}
		fmt.Println(line)
	}
	return 0
}

func stackIDArg(name string, args []string, usage func()) (int, []string, int) {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "%s requires <stack-id>\n", name)
		usage()
		return 0, nil, 2
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid stack id %q\n", args[0])
		return 0, nil, 2
	}
	return id, args[1:], 0
}

func runDump(args []string) int {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: stackwm dump <stack-id>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Print the deterministic diagnostic dump of one stack.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	id, rest, code := stackIDArg("dump", fs.Args(), fs.Usage)
	if code != 0 {
		return code
	}
	if len(rest) != 0 {
		fmt.Fprintln(os.Stderr, "dump takes a single stack id")
		fs.Usage()
		return 2
	}

	client, code := newClient()
	if code != 0 {
		return code
	}
	dump, err := client.DumpStack(id)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Print(dump)
	return 0
}

func runCreate(args []string) int {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: stackwm create <stack-id>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Create a stack and attach it to the display.")
		fmt.Fprintln(os.Stderr, "Well-known ids: 0=home 1=fullscreen 2=freeform 3=docked 4=pinned.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	id, rest, code := stackIDArg("create", fs.Args(), fs.Usage)
	if code != 0 {
		return code
	}
	if len(rest) != 0 {
		fmt.Fprintln(os.Stderr, "create takes a single stack id")
		fs.Usage()
		return 2
	}

	client, code := newClient()
	if code != 0 {
		return code
	}
	if err := client.CreateStack(id); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runRemove(args []string) int {
	fs := flag.NewFlagSet("remove", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: stackwm remove <stack-id>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Detach and remove a stack.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	id, rest, code := stackIDArg("remove", fs.Args(), fs.Usage)
	if code != 0 {
		return code
	}
	if len(rest) != 0 {
		fmt.Fprintln(os.Stderr, "remove takes a single stack id")
		fs.Usage()
		return 2
	}

	client, code := newClient()
	if code != 0 {
		return code
	}
	if err := client.RemoveStack(id); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runResize(args []string) int {
	fs := flag.NewFlagSet("resize", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: stackwm resize <stack-id> [<left> <top> <right> <bottom>]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Resize a stack to an explicit rectangle. With no edges the stack")
		fmt.Fprintln(os.Stderr, "becomes fullscreen.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	id, rest, code := stackIDArg("resize", fs.Args(), fs.Usage)
	if code != 0 {
		return code
	}

	var bounds *geometry.Rect
	switch len(rest) {
	case 0:
		// Fullscreen request.
	case 4:
		edges := make([]int, 4)
		for i, arg := range rest {
			v, err := strconv.Atoi(arg)
			if err != nil {
				fmt.Fprintf(os.Stderr, "invalid edge %q\n", arg)
				return 2
			}
			edges[i] = v
		}
		bounds = &geometry.Rect{Left: edges[0], Top: edges[1], Right: edges[2], Bottom: edges[3]}
	default:
		fmt.Fprintln(os.Stderr, "resize takes either no edges or all four")
		fs.Usage()
		return 2
	}

	client, code := newClient()
	if code != 0 {
		return code
	}
	changed, err := client.ResizeStack(id, bounds)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("changed: %v\n", changed)
	return 0
}

func runRotate(args []string) int {
	fs := flag.NewFlagSet("rotate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: stackwm rotate <0-3>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Rotate the display to a quarter-turn rotation.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "rotate requires <rotation>")
		fs.Usage()
		return 2
	}
	rotation, err := strconv.Atoi(fs.Arg(0))
	if err != nil || rotation < 0 || rotation > 3 {
		fmt.Fprintf(os.Stderr, "invalid rotation %q (want 0-3)\n", fs.Arg(0))
		return 2
	}

	client, code := newClient()
	if code != 0 {
		return code
	}
	if err := client.RotateDisplay(rotation); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runMinimize(args []string) int {
	fs := flag.NewFlagSet("minimize", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: stackwm minimize <amount>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Set the docked-stack minimize progress between 0 (restored)")
		fmt.Fprintln(os.Stderr, "and 1 (fully minimized).")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "minimize requires <amount>")
		fs.Usage()
		return 2
	}
	amount, err := strconv.ParseFloat(fs.Arg(0), 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid amount %q\n", fs.Arg(0))
		return 2
	}

	client, code := newClient()
	if code != 0 {
		return code
	}
	relayout, err := client.SetMinimized(amount)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("relayout: %v\n", relayout)
	return 0
}

func runUser(args []string) int {
	fs := flag.NewFlagSet("user", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: stackwm user <user-id>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Switch the current user. Every stack repartitions its tasks so")
		fmt.Fprintln(os.Stderr, "the new user's tasks end up on top.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "user requires <user-id>")
		fs.Usage()
		return 2
	}
	userID, err := strconv.Atoi(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid user id %q\n", fs.Arg(0))
		return 2
	}

	client, code := newClient()
	if code != 0 {
		return code
	}
	if err := client.SwitchUser(userID); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  stackwm config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  stackwm config print [--path PATH] [--defaults]")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/stackwm/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		var err error
		if *path == "" {
			_, err = config.Load()
		} else {
			_, err = config.LoadFromPath(*path)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/stackwm/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		var cfg *config.Config
		var err error
		if *printDefaults {
			cfg = config.DefaultConfig()
		} else if *path == "" {
			cfg, err = config.Load()
		} else {
			cfg, err = config.LoadFromPath(*path)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		data, err := cfg.Marshal()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config command: %s\n", args[0])
		return 2
	}
}

func runTUI(args []string) int {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: stackwm tui")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Open the live stack monitor (requires a running daemon).")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "tui takes no arguments")
		fs.Usage()
		return 2
	}

	client, code := newClient()
	if code != 0 {
		return code
	}
	if err := tui.Run(client); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runDaemon() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("Configuration loaded (divider: %dpx, fallback display: %dx%d)",
		cfg.DividerWidth, cfg.Display.Width, cfg.Display.Height)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))

	// Task-lifecycle manager: remote when configured, inert otherwise.
	var manager lifecycle.Manager
	if cfg.ManagerSocket != "" {
		manager = ipc.NewManagerClient(cfg.ManagerSocket)
		log.Printf("Task-lifecycle manager socket: %s", cfg.ManagerSocket)
	} else {
		manager = lifecycle.NopManager{}
		log.Println("No task-lifecycle manager configured, running standalone")
	}

	eng := engine.New(cfg, manager, logger)

	// Display geometry: live from X11 when available, config otherwise.
	info := display.Info{
		LogicalWidth:  cfg.Display.Width,
		LogicalHeight: cfg.Display.Height,
	}
	if os.Getenv("DISPLAY") != "" {
		if conn, err := x11.NewConnection(); err != nil {
			log.Printf("Warning: failed to connect to X11, using configured display: %v", err)
		} else {
			defer conn.Close()
			if live, err := conn.PrimaryDisplay(); err != nil {
				log.Printf("Warning: failed to read X11 display geometry: %v", err)
			} else {
				info = live
				log.Printf("Display geometry from X11: %dx%d (rotation %d)",
					info.LogicalWidth, info.LogicalHeight, info.Rotation)
			}
			eng.AttachDisplay(info)
			full := geometry.XYWH(0, 0, info.LogicalWidth, info.LogicalHeight)
			if insets, err := conn.StableInsets(full); err != nil {
				log.Printf("Warning: failed to read dock struts: %v", err)
			} else if insets != (geometry.Insets{}) {
				eng.SetBaseInsets(insets)
				log.Printf("Stable insets from dock struts: %+v", insets)
			}
		}
	}
	if eng.Display() == nil {
		eng.AttachDisplay(info)
	}

	// Baseline stacks; clients create the rest on demand.
	for _, id := range []int{stack.HomeStackID, stack.FullscreenWorkspaceStackID} {
		if err := eng.CreateStack(id); err != nil {
			log.Fatalf("Failed to create stack %d: %v", id, err)
		}
	}

	// Drain the outbound resize queue in the background.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go eng.Run(ctx)

	// Start IPC server
	ipcServer, err := ipc.NewServer(eng)
	if err != nil {
		log.Fatalf("Failed to create IPC server: %v", err)
	}
	if err := ipcServer.Start(); err != nil {
		log.Fatalf("Failed to start IPC server: %v", err)
	}
	defer ipcServer.Stop()

	log.Println("stackwm daemon started successfully")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down stackwm daemon...")
	cancel()
	eng.Flush()
	ipcServer.Stop()
}
