/*
Package ot provides the small vocabulary shared by all packages of fontfeatures:
OpenType tags, glyph indices, glyph categories, lookup flags and glyph sets.

Binary font parsing is not a concern of this module. Rule stores are handed to
the shaping engine pre-built, and glyph metrics are accessed through
the otlayout.FontAccess interface.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package ot
