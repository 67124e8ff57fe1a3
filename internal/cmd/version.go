package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/hades-lang/cstub/internal/codegen/common"
)

type Version struct{}

func (v *Version) Run() error {
	return v.Execute(os.Stdout)
}

func (v *Version) Execute(w io.Writer) error {
	version, err := common.GetVersion()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "cstub %s\n", version)
	return err
}
