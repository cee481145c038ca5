package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/MakeNowJust/heredoc"
	charmlog "github.com/charmbracelet/log/v2"
	"github.com/charmbracelet/psout/internal/config"
	"github.com/nxadm/tail"
	"github.com/spf13/cobra"
)

const defaultTailLines = 1000

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View psout logs",
	Long: heredoc.Doc(`
		Print the psout log file. Each invocation logs the command id, the
		requested architecture, the exit status and how long the shell ran.
	`),
	Example: heredoc.Doc(`
		# Show the last 1000 lines
		psout logs

		# Show the last 20 lines and keep watching
		psout logs --tail 20 --follow
	`),
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		follow, _ := cmd.Flags().GetBool("follow")
		lines, _ := cmd.Flags().GetInt("tail")
		path, _ := cmd.Flags().GetString("config-file")

		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		logFile := cfg.LogFile()
		if _, err := os.Stat(logFile); os.IsNotExist(err) {
			fmt.Fprintf(cmd.ErrOrStderr(), "No logs found at %s\n", logFile)
			return nil
		}

		printer := newLogPrinter(cmd.OutOrStdout())
		if err := showLogs(logFile, lines, printer); err != nil {
			return err
		}
		if follow {
			return followLogs(cmd.Context(), logFile, printer)
		}
		return nil
	},
}

func init() {
	logsCmd.Flags().BoolP("follow", "f", false, "Keep printing new log lines")
	logsCmd.Flags().IntP("tail", "t", defaultTailLines, "Number of lines to show from the end, 0 for all")
	rootCmd.AddCommand(logsCmd)
}

// showLogs prints the last n lines of logFile.
func showLogs(logFile string, n int, p *logPrinter) error {
	f, err := os.Open(logFile)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		if n > 0 && len(lines) > n {
			lines = lines[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read log file: %w", err)
	}
	for _, line := range lines {
		p.print(line)
	}
	return nil
}

// followLogs prints lines appended to logFile until ctx is done.
func followLogs(ctx context.Context, logFile string, p *logPrinter) error {
	t, err := tail.TailFile(logFile, tail.Config{
		Follow:   true,
		ReOpen:   true,
		Location: &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd},
		Logger:   tail.DiscardingLogger,
	})
	if err != nil {
		return fmt.Errorf("failed to follow log file: %w", err)
	}
	defer t.Cleanup()

	for {
		select {
		case <-ctx.Done():
			_ = t.Stop()
			return nil
		case line, ok := <-t.Lines:
			if !ok {
				return t.Err()
			}
			if line.Err != nil {
				return fmt.Errorf("failed to read log line: %w", line.Err)
			}
			p.print(line.Text)
		}
	}
}

// logPrinter renders JSON log lines as human readable text.
type logPrinter struct {
	out    io.Writer
	logger *charmlog.Logger
}

func newLogPrinter(w io.Writer) *logPrinter {
	return &logPrinter{
		out: w,
		logger: charmlog.NewWithOptions(w, charmlog.Options{
			Level: charmlog.DebugLevel,
		}),
	}
}

func (p *logPrinter) print(line string) {
	var data map[string]any
	if err := json.Unmarshal([]byte(line), &data); err != nil {
		fmt.Fprintln(p.out, line)
		return
	}

	level := charmlog.InfoLevel
	if raw, ok := data["level"].(string); ok {
		if parsed, err := charmlog.ParseLevel(raw); err == nil {
			level = parsed
		}
	}
	msg := data["msg"]

	var keyvals []any
	if ts, ok := data["time"]; ok {
		keyvals = append(keyvals, "time", ts)
	}
	delete(data, "time")
	delete(data, "level")
	delete(data, "msg")
	for _, k := range slices.Sorted(maps.Keys(data)) {
		keyvals = append(keyvals, k, data[k])
	}
	p.logger.Log(level, msg, keyvals...)
}
