package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/pulse/internal/config"
	"github.com/llehouerou/pulse/internal/node"
	"github.com/llehouerou/pulse/internal/player"
	"github.com/llehouerou/pulse/internal/session"
)

// version is set via ldflags at build time.
var version = "dev"

var cli struct {
	File    string        `arg:"" name:"file" help:"Audio file to play (mp3, flac, wav, ogg)." optional:""`
	At      time.Duration `help:"Start playback at this position." default:"0s"`
	Verbose bool          `short:"v" help:"Enable debug logging."`
	Version bool          `help:"Show version information."`
}

// consoleDelegate prints playback transitions and signals track completion.
type consoleDelegate struct {
	done chan bool
}

func (d *consoleDelegate) PlaybackStarted() { fmt.Println("playing") }
func (d *consoleDelegate) PlaybackPaused()  { fmt.Println("paused") }

func (d *consoleDelegate) PlaybackStopped(completed bool) {
	select {
	case d.done <- completed:
	default:
	}
}

func main() {
	kong.Parse(&cli,
		kong.Name("pulse"),
		kong.Description("Buffered audio playback from the command line."),
		kong.UsageOnError(),
	)

	if cli.Version {
		fmt.Printf("pulse %s\n", version)
		return
	}
	if cli.File == "" {
		fmt.Fprintln(os.Stderr, "error: <file> is required")
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(log); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	delegate := &consoleDelegate{done: make(chan bool, 4)}
	p := player.New(node.NewOto(),
		player.WithEngineConfig(cfg.Engine),
		player.WithDelegate(delegate),
		player.WithLogger(log),
	)
	defer p.Close()

	if err := p.SetTrack(cli.File); err != nil {
		return err
	}
	if info, err := os.Stat(cli.File); err == nil {
		log.Info("track loaded",
			"file", cli.File,
			"size", humanize.IBytes(uint64(info.Size())),
			"length", p.TrackLength().Round(time.Second))
	}

	var mon session.Monitor
	mon, err = session.NewReserveMonitor(cfg.Output.ReserveDevice, log)
	if err != nil {
		log.Warn("device reservation unavailable", "err", err)
	} else {
		defer mon.Close()
		p.Attach(mon)
	}

	if cli.At > 0 {
		p.SetPosition(cli.At)
	}
	if err := p.Play(); err != nil {
		return err
	}

	commands := readCommands(os.Stdin)
	fmt.Println("commands: p=play/pause, s <seconds>=seek, .=position, q=quit")

	for {
		select {
		case completed := <-delegate.done:
			if completed {
				fmt.Println("finished")
				return nil
			}
			// A stop that is not end-of-track is either a seek restart or a
			// session interruption; keep the command loop alive.

		case line, ok := <-commands:
			if !ok {
				p.Stop()
				return nil
			}
			switch {
			case line == "q":
				p.Stop()
				return nil
			case line == "p" || line == "":
				p.Toggle()
			case line == ".":
				fmt.Printf("%v / %v (%.0f%%)\n",
					p.Position().Round(time.Second),
					p.TrackLength().Round(time.Second),
					p.Progress()*100)
			case strings.HasPrefix(line, "s "):
				var secs float64
				if _, err := fmt.Sscanf(line, "s %f", &secs); err != nil {
					fmt.Println("usage: s <seconds>")
					continue
				}
				p.SetPosition(time.Duration(secs * float64(time.Second)))
			default:
				fmt.Println("unknown command:", line)
			}
		}
	}
}

func readCommands(r *os.File) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			ch <- strings.TrimSpace(scanner.Text())
		}
	}()
	return ch
}
