package autocorrect

import "strings"

// CommonCommands are programs every installation is assumed to have. They're
// never added to the learned store.
var CommonCommands = []string{
	"ls", "cat", "grep", "cd", "echo", "pwd", "mkdir", "rmdir",
	"rm", "cp", "mv", "touch", "clear", "exit", "find", "head",
	"tail", "sort", "chmod", "chown", "man", "less", "more",
}

type typoList struct {
	command string
	typos   []string
}

// commonTypos lists frequent misspellings of each common command. When a typo
// appears under more than one command the later entry wins.
var commonTypos = []typoList{
	{"ls", []string{
		"sl", "lz", "lx", "lp", "ld", "la", "lss", "lsz", "lsx", "lsq", "lsw",
		"lzs", "lsd", "ls1", "ls;", "l.s", "l-s",
	}},
	{"cat", []string{
		"cta", "ct", "act", "cqt", "cst", "czt", "cag", "catt", "caa", "cwt",
		"ctt", "car", "catr", "ctq", "caat", "cay", "caz",
	}},
	{"grep", []string{
		"gtep", "gerp", "grp", "greo", "geep", "grpe", "gref", "grepp", "grrp",
		"gtrep", "gre;", "grwp", "grfp", "gre0", "grdp", "greop",
	}},
	{"cd", []string{
		"dc", "vd", "xd", "cs", "xv", "sd", "cz", "cf", "cx", "cds", "cdd", "cfd",
		"ccd", "cvd", "cd.", "cd/",
	}},
	{"echo", []string{
		"ehco", "eho", "eco", "ecco", "ech", "ehoh", "echp", "echi",
		"ech0", "echu", "eho0", "ech9", "ehc", "echy",
	}},
	{"pwd", []string{
		"pdw", "pdd", "pw", "pwf", "pwr", "pwq", "pwe", "pww", "pwdc", "pwdx",
		"pwd1", "pwx", "pwdd", "pwde", "pwv", "ppwd",
	}},
	{"mkdir", []string{
		"mdkir", "mkidr", "mkdr", "mkr", "mkkir", "mkdirr", "mkdir1", "mkid",
		"mkrd", "mkdir2", "mkrir", "mkrdr", "mkkdir",
	}},
	{"rmdir", []string{
		"rdmir", "rmidr", "rmdr", "rmir", "rmdirr", "rmder",
		"rmdir1", "rmdir2", "rmddr", "rmdor", "rmdjr",
	}},
	{"rm", []string{
		"mr", "rn", "rmm", "rmmr", "rjm", "rwm", "rkm", "rvm", "rrm", "rmn",
		"r.m", "r;m", "rm,", "rmmn", "rmk",
	}},
	{"cp", []string{
		"pc", "cpo", "cpp", "cpq", "c0p", "cpl", "cpi", "cpz", "cp;", "cpm",
		"cpx", "cp,", "cp1", "ccp", "cp2",
	}},
	{"mv", []string{
		"vm", "mn", "mvb", "mvv", "mvvv", "mvf", "mvc", "mvg", "mvd", "mvn",
		"mvx", "mv;", "mv,", "mv1", "mvvb",
	}},
	{"touch", []string{
		"tuch", "touc", "touhc", "tuchh", "toch", "toucj", "touvh", "tuchc",
		"touchh", "toucx", "toucg", "toucq", "touh", "touhch", "tuchj",
	}},
	{"clear", []string{
		"cler", "claer", "clera", "cear", "cla", "clea", "clrar", "cleear",
		"cleer", "clwar", "cldar", "clqar", "c;ear", "c,lear", "cleaf",
	}},
	{"exit", []string{
		"exot", "exiy", "exut", "exif", "eixt", "exiit", "exi", "exitx",
		"exotx", "exkt", "exotq", "exiot", "exutx",
	}},
	{"find", []string{
		"fnid", "fidn", "fnd", "findd", "finn", "fihd", "fiod", "finf", "fijd",
		"fndd", "f8nd", "fjnd", "findf", "fins", "finds",
	}},
	{"head", []string{
		"haed", "hed", "headd", "hrad", "hade", "heda", "hedd", "heaad", "hwad",
		"heqd", "heasd", "hesd", "hrsd", "hedr",
	}},
	{"tail", []string{
		"tali", "tial", "taol", "tall", "tiall", "talii", "taik",
		"taill", "taliq", "tauk", "tqil", "tazl",
	}},
	{"sort", []string{
		"srot", "sotr", "sor", "soet", "sot", "sory", "sor5", "sortt", "soort",
		"sirt", "so4t", "s0rt", "soert", "sart",
	}},
	{"chmod", []string{
		"chomd", "chmd", "chdmo", "chdm", "chd", "chmdo", "chmdd", "chmof", "chmld",
		"chmxd", "chm0d", "chjmd", "chmop",
	}},
	{"chown", []string{
		"chonw", "chowm", "choen", "chwon", "chwonw", "chownn", "chowb", "chowq",
		"ch0wn", "chawn", "chown1", "chownr", "chownu", "chownx", "chownm",
	}},
	{"man", []string{
		"amn", "mna", "maan", "mamn", "mn", "mann", "manb", "manm", "mwn",
		"mzn", "mqn", "mab", "mnan", "man1", "manq",
	}},
	{"less", []string{
		"lses", "les", "leess", "lss", "lesss", "lezs", "l3ss", "lews", "lsss",
		"lesx", "lessx", "lqss", "leas", "lesz",
	}},
	{"more", []string{
		"mroe", "mre", "moer", "moee", "mor", "moree", "moore", "morf", "morz",
		"mo4e", "m0re", "mire", "mkre", "miree",
	}},
}

// typoCorrections maps a lower case misspelling to the command it's for.
var typoCorrections = buildCorrections(commonTypos)

func buildCorrections(lists []typoList) map[string]string {
	out := make(map[string]string)
	for _, list := range lists {
		for _, typo := range list.typos {
			out[typo] = list.command
		}
	}
	return out
}

// CorrectTypo returns the command a common misspelling refers to.
func CorrectTypo(name string) (string, bool) {
	cmd, ok := typoCorrections[strings.ToLower(name)]
	return cmd, ok
}

func isCommon(name string) bool {
	for _, cmd := range CommonCommands {
		if cmd == name {
			return true
		}
	}
	return false
}
