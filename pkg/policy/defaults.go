package policy

// Default returns the built-in attribution policy. The tables reflect the
// libloot workspace this tool grew up in; other projects overlay their own
// via a policy file.
func Default() *Policy {
	return &Policy{
		NoticeExempt: []string{
			"CC0-1.0",
			"Unlicense",
			"Zlib",
			"MPL-2.0",
		},

		// GPL obligations are satisfied by the consolidated text the
		// distribution already ships, so no per-identifier download.
		NoTextFile: []string{
			"GPL-3.0",
			"GPL-3.0-only",
			"GPL-3.0-or-later",
		},

		Rewrites: []RewriteRule{
			{Match: "MIT/Apache-2.0", Replace: "MIT OR Apache-2.0"},
			{Match: "(Apache-2.0 OR MIT) AND BSD-3-Clause", Replace: "MIT AND BSD-3-Clause"},
			{Match: "(MIT OR Apache-2.0) AND Unicode-3.0", Replace: "MIT AND Unicode-3.0"},
		},

		OwnCrates: []string{
			"libloot",
			"libloot-ffi-errors",
		},

		// Each pair was verified by hand: the release genuinely contains
		// no copyright notice lines. Exact versions only.
		NoNotices: []CrateVersion{
			{Name: "allocator-api2", Version: "0.2.21"},
			{Name: "cxx", Version: "1.0.161"},
			{Name: "cxxbridge-macro", Version: "1.0.161"},
			{Name: "delegate", Version: "0.13.4"},
			{Name: "link-cplusplus", Version: "1.0.10"},
			{Name: "once_cell", Version: "1.21.3"},
			{Name: "option-ext", Version: "0.2.0"},
			{Name: "pelite-macros", Version: "0.1.1"},
			{Name: "pest", Version: "2.8.0"},
			{Name: "proc-macro2", Version: "1.0.101"},
			{Name: "quote", Version: "1.0.40"},
			{Name: "rustc-hash", Version: "2.1.1"},
			{Name: "rustversion", Version: "1.0.20"},
			{Name: "serde", Version: "1.0.219"},
			{Name: "serde_derive", Version: "1.0.219"},
			{Name: "syn", Version: "2.0.106"},
			{Name: "thiserror", Version: "2.0.12"},
			{Name: "thiserror-impl", Version: "2.0.12"},
		},

		NoticeOverrides: map[string][]string{
			"hashlink":     {"Copyright (c) 2015 The Rust Project Developers"},
			"libloadorder": {"Copyright (C) 2017 Oliver Hamlet"},
			"esplugin":     {"Copyright (C) 2017 Oliver Hamlet"},
		},

		DefaultPlatforms: []string{
			"x86_64-pc-windows-msvc",
			"x86_64-unknown-linux-gnu",
		},

		ExcludedTargets: []string{
			`cfg(target_os = "redox")`,
		},

		BumpRules: []BumpRule{
			{
				Path:    "Cargo.toml",
				Pattern: `^version = "\d+\.\d+\.\d+"$`,
				Replace: `version = "{version}"`,
			},
			{
				Path:    "package.json",
				Pattern: `"version": "\d+\.\d+\.\d+",`,
				Replace: `"version": "{version}",`,
			},
		},
	}
}
