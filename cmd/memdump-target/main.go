// Command memdump-target is the reference process for memdump's launch mode.
// It keeps 16 bytes in two heap allocations and one stack array and waits
// on stdin so a scanner can find them.
package main

import (
	"bufio"
	"crypto/rand"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"memdump/internal/memory"
)

var rootCmd = &cobra.Command{
	Use:   "memdump-target",
	Short: "Hold a known 16-byte value in memory until stdin closes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		known, _ := cmd.Flags().GetBool("known")

		var target memory.Pattern
		if known {
			target = memory.DefaultPattern()
		} else if _, err := rand.Read(target[:]); err != nil {
			return fmt.Errorf("generate target bytes: %w", err)
		}

		fmt.Println("=== TARGET PROGRAM ===")
		fmt.Printf("PID: %d\n", os.Getpid())
		fmt.Printf("Target 16 bytes (hex): %s\n", target)
		fmt.Print("Target 16 bytes (decimal):")
		for _, b := range target {
			fmt.Printf(" %d", b)
		}
		fmt.Println()

		heapCopy := make([]byte, memory.PatternSize)
		copy(heapCopy, target[:])
		secondCopy := make([]byte, memory.PatternSize)
		copy(secondCopy, target[:])
		var stackCopy [memory.PatternSize]byte
		copy(stackCopy[:], target[:])

		fmt.Println("Bytes stored in:")
		fmt.Printf("  Heap (slice 1): %p\n", heapCopy)
		fmt.Printf("  Heap (slice 2): %p\n", secondCopy)
		fmt.Printf("  Stack (array):  %p\n", &stackCopy)
		fmt.Println("\nProgram waiting for memory dump...")
		fmt.Println("Press Enter to exit or let memory dumper attach...")

		_, _ = bufio.NewReader(os.Stdin).ReadString('\n')

		runtime.KeepAlive(heapCopy)
		runtime.KeepAlive(secondCopy)
		runtime.KeepAlive(&stackCopy)
		return nil
	},
}

func main() {
	rootCmd.Flags().Bool("known", false, "Hold the A-Z test pattern instead of random bytes")
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
