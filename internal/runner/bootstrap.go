package runner

import (
	"github.com/bartekus/glazboot/internal/toolchain"
)

const sources = "src/*.glaz"

// Bootstrap returns the fixed Glaz bootstrap pipeline.
//
// The seed compiler builds the standard library and a first-generation
// compiler, which rebuilds itself (stage0). The resulting compiler then
// rebuilds the library and itself once more (stage1); that last binary builds
// the project manager, which must answer "version". release is forwarded only
// to the project manager build.
func Bootstrap(seed Fetcher, release bool) []Step {
	return []Step{
		{
			Name:   "seed:fetch",
			Stage:  StageSeed,
			Dir:    ".",
			Action: Fetch{Source: seed},
		},
		{
			Name:  "stage0:std",
			Stage: StageZero,
			Dir:   "lib/std",
			Action: Compile{toolchain.Invocation{
				Compiler: "../../glazc", SrcName: "std", NoStd: true, Lib: true, Sources: []string{sources},
			}},
		},
		{
			Name:  "stage0:compiler",
			Stage: StageZero,
			Dir:   "compiler",
			Action: Compile{toolchain.Invocation{
				Compiler: "../glazc", SrcName: "glazc", Sources: []string{sources},
			}},
		},
		{
			Name:  "stage0:self",
			Stage: StageZero,
			Dir:   "compiler",
			Action: Compile{toolchain.Invocation{
				Compiler: "./glazc", SrcName: "glazc", Sources: []string{sources},
			}},
		},
		{
			Name:  "stage1:std",
			Stage: StageOne,
			Dir:   "lib/std",
			Action: Compile{toolchain.Invocation{
				Compiler: "../../compiler/glazc", SrcName: "std", NoStd: true, Lib: true, Sources: []string{sources},
			}},
		},
		{
			Name:  "stage1:compiler",
			Stage: StageOne,
			Dir:   "compiler",
			Action: Compile{toolchain.Invocation{
				Compiler: "./glazc", SrcName: "glazc", Sources: []string{sources},
			}},
		},
		{
			Name:   "final:cleanup",
			Stage:  StageFinal,
			Dir:    ".",
			Action: Remove{Path: "glazc"},
		},
		{
			Name:  "final:glaz",
			Stage: StageFinal,
			Dir:   ".",
			Action: Compile{toolchain.Invocation{
				Compiler: "./compiler/glazc", SrcName: "glaz", Release: release, Sources: []string{sources},
			}},
		},
		{
			Name:   "final:smoke",
			Stage:  StageFinal,
			Dir:    ".",
			Action: Exec{Path: "./glaz", Args: []string{"version"}},
		},
	}
}
