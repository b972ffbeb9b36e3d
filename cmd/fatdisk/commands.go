package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hupe1980/fatfs"
)

func (a *app) format(args []string) error {
	rest, err := parse(newFlagSet(a, "format"), args, usageFormat, 1, 1)
	if err != nil {
		return err
	}
	disk, err := fatfs.Create(rest[0], a.opts...)
	if err != nil {
		return err
	}
	return disk.Close()
}

func (a *app) pack(args []string) error {
	rest, err := parse(newFlagSet(a, "pack"), args, usagePack, 2, 2)
	if err != nil {
		return err
	}
	hostDir, image := rest[0], rest[1]

	info, err := a.fsys.Stat(hostDir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", hostDir)
	}

	disk, err := fatfs.Create(image, a.opts...)
	if err != nil {
		return err
	}
	return closeDisk(disk, a.copyIn(disk, hostDir))
}

func (a *app) unpack(args []string) error {
	rest, err := parse(newFlagSet(a, "unpack"), args, usageUnpack, 2, 2)
	if err != nil {
		return err
	}
	image, hostDir := rest[0], rest[1]

	disk, err := fatfs.Open(image, a.opts...)
	if err != nil {
		return err
	}
	return closeDisk(disk, a.copyOut(disk, hostDir))
}

func (a *app) ls(args []string) error {
	flagSet := newFlagSet(a, "ls")
	long := flagSet.BoolP("long", "l", false, "show kind and size")
	rest, err := parse(flagSet, args, usageLs, 1, 2)
	if err != nil {
		return err
	}

	disk, err := fatfs.Open(rest[0], a.opts...)
	if err != nil {
		return err
	}
	if len(rest) == 2 {
		if err := chdirPath(disk, rest[1]); err != nil {
			return closeDisk(disk, err)
		}
	}
	return closeDisk(disk, a.list(disk, *long))
}

func (a *app) list(disk *fatfs.Disk, long bool) error {
	entries, err := disk.List()
	if err != nil {
		return err
	}
	for _, e := range entries {
		if !long {
			fmt.Fprintln(a.stdout, e.Name)
			continue
		}
		fi, err := disk.Stat(e.Name)
		if err != nil {
			return err
		}
		kind := "-"
		if fi.IsDir() {
			kind = "d"
		}
		fmt.Fprintf(a.stdout, "%s %8d %s\n", kind, fi.Size, fi.Name)
	}
	return nil
}

func (a *app) export(args []string) error {
	flagSet := newFlagSet(a, "export")
	codecName := flagSet.String("codec", "zstd", "compression codec: zstd, lz4 or none")
	rest, err := parse(flagSet, args, usageExport, 2, 2)
	if err != nil {
		return err
	}
	codec, err := fatfs.ParseCodec(*codecName)
	if err != nil {
		return usagef("%v", err)
	}

	disk, err := fatfs.Open(rest[0], a.opts...)
	if err != nil {
		return err
	}
	out, err := a.fsys.OpenFile(rest[1], os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return closeDisk(disk, err)
	}

	err = disk.Export(out, codec)
	if err == nil {
		err = out.Sync()
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = a.fsys.Remove(rest[1])
	}
	return closeDisk(disk, err)
}

func (a *app) importArchive(args []string) error {
	rest, err := parse(newFlagSet(a, "import"), args, usageImport, 2, 2)
	if err != nil {
		return err
	}

	in, err := a.fsys.OpenFile(rest[0], os.O_RDONLY, 0)
	if err != nil {
		return err
	}
	defer in.Close()

	disk, err := fatfs.Import(in, rest[1], a.opts...)
	if err != nil {
		return err
	}
	return disk.Close()
}

// chdirPath walks a slash-separated path from the root of disk.
func chdirPath(disk *fatfs.Disk, path string) error {
	if strings.HasPrefix(path, "/") {
		if err := disk.Chdir("/"); err != nil {
			return err
		}
	}
	for _, part := range strings.Split(path, "/") {
		if part == "" || part == "." {
			continue
		}
		if err := disk.Chdir(part); err != nil {
			return err
		}
	}
	return nil
}

// closeDisk closes disk and returns err, or the close error if err is nil.
func closeDisk(disk *fatfs.Disk, err error) error {
	return errors.Join(err, disk.Close())
}

// copyIn copies the regular files and directories below hostDir into the
// working directory of disk.
func (a *app) copyIn(disk *fatfs.Disk, hostDir string) error {
	entries, err := a.fsys.ReadDir(hostDir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		hostPath := filepath.Join(hostDir, e.Name())
		switch {
		case e.IsDir():
			if err := disk.Mkdir(e.Name()); err != nil {
				return err
			}
			if err := disk.Chdir(e.Name()); err != nil {
				return err
			}
			if err := a.copyIn(disk, hostPath); err != nil {
				return err
			}
			if err := disk.Chdir(".."); err != nil {
				return err
			}
		case e.Type().IsRegular():
			if err := a.copyFileIn(disk, hostPath, e.Name()); err != nil {
				return err
			}
		default:
			fmt.Fprintf(a.stderr, "skipping %s: not a regular file\n", hostPath)
		}
	}
	return nil
}

func (a *app) copyFileIn(disk *fatfs.Disk, hostPath, name string) error {
	src, err := a.fsys.OpenFile(hostPath, os.O_RDONLY, 0)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := disk.Create(name)
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("copy %s: %w", hostPath, err)
	}
	return nil
}

// copyOut recreates the working directory of disk below hostDir.
func (a *app) copyOut(disk *fatfs.Disk, hostDir string) error {
	if err := a.fsys.MkdirAll(hostDir, 0o755); err != nil {
		return err
	}
	entries, err := disk.List()
	if err != nil {
		return err
	}
	for _, e := range entries {
		if !fatfs.ValidName(e.Name) {
			fmt.Fprintf(a.stderr, "skipping %q: invalid entry name\n", e.Name)
			continue
		}
		hostPath := filepath.Join(hostDir, e.Name)
		if !e.IsDir() {
			if err := a.copyFileOut(disk, e.Name, hostPath); err != nil {
				return err
			}
			continue
		}
		if err := disk.Chdir(e.Name); err != nil {
			return err
		}
		if err := a.copyOut(disk, hostPath); err != nil {
			return err
		}
		if err := disk.Chdir(".."); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) copyFileOut(disk *fatfs.Disk, name, hostPath string) (err error) {
	src, err := disk.OpenFile(name)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := a.fsys.OpenFile(hostPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := dst.Close(); err == nil {
			err = cerr
		}
	}()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("copy %s: %w", name, err)
	}
	return nil
}
