/*
Package macro implements the textual preprocessor behind `tinyssg macro`.

Two directives are recognised, each occupying a whole line:

	#include path/to/file
	#globaldefine NAME "value"

Includes are expanded first. Every #include line in the input is replaced by
the contents of the named file; the included text is not itself scanned
again, so nested directives survive until the define pass (for
#globaldefine) or are left as text (for #include).

Defines are expanded second. Every #globaldefine line is removed, then each
NAME is replaced by its unquoted value wherever it occurs in the remaining
text, including occurrences above the definition. Replacement is a raw
substring match applied in definition order to the accumulating text: a
short name such as "ID" also rewrites "WIDTH", and a later define sees the
output of earlier ones.

Any read failure aborts the whole expansion and nothing is written.
*/
package macro
